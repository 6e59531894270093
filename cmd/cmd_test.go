package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/mdparty/internal/config"
	"github.com/ziadkadry99/mdparty/internal/content"
)

// writeSite lays out a local site and returns the path of its .mdparty.yml.
func writeSite(t *testing.T, sitemap string) string {
	t.Helper()
	t.Setenv("CI", "1")

	dir := t.TempDir()
	files := map[string]string{
		"config.json": `{"title":"Docs","pages":{"sitemapLocation":"sitemap.yaml","fetchPrefix":"md"},` +
			`"layout":{"fetchPrefix":"layout","cssFile":"style.css","parts":["header"]}}`,
		"sitemap.yaml":     sitemap,
		"md/index.md":      "# Index\n",
		"md/about_us.md":   "---\ntitle: About the team\n---\n# About\n",
		"md/draft.md":      "# Draft\n",
		"layout/header.md": "**Header**\n",
		"layout/style.css": "body { color: red; }\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.ContentDir = dir
	cfgPath := filepath.Join(dir, ".mdparty.yml")
	require.NoError(t, cfg.Save(cfgPath))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderFragment(t *testing.T) {
	cfgPath := writeSite(t, "- Index\n- About Us\n")
	output := filepath.Join(t.TempDir(), "about.html")

	_, err := run(t, "--config", cfgPath, "render", "#about_us", "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<title>About Us - Docs</title>")
	assert.Contains(t, doc, "<h1 id=\"about\">About</h1>")
	assert.Contains(t, doc, `<a href="#about_us" class="nav-item active">About Us</a>`)
	assert.Contains(t, doc, `href="layout/style.css"`)
	assert.NotContains(t, doc, "<script>")
}

func TestRenderSampleSiteDefaultsToFirstPage(t *testing.T) {
	t.Setenv("CI", "1")
	dir, err := filepath.Abs(filepath.Join("..", "testdata", "site"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.ContentDir = dir
	cfgPath := filepath.Join(t.TempDir(), ".mdparty.yml")
	require.NoError(t, cfg.Save(cfgPath))

	output := filepath.Join(t.TempDir(), "index.html")
	_, err = run(t, "--config", cfgPath, "render", "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<title>Getting Started - md-party</title>")
	assert.Contains(t, doc, `<a href="#layout_style" class="nav-item">Layout &amp; Style</a>`)
	assert.Contains(t, doc, "<footer><p>Built with mdparty.</p>\n</footer>")
	assert.NotContains(t, doc, "title: Getting started with md-party")
}

func TestCheckReportsCollisions(t *testing.T) {
	cfgPath := writeSite(t, "- Index\n- About Us\n- about-us\n")
	t.Cleanup(func() { checkStrict = false })

	out, err := run(t, "--config", cfgPath, "check", "--strict")
	var collisionErr *content.SlugCollisionError
	require.ErrorAs(t, err, &collisionErr)
	assert.Contains(t, out, "About the team")
	assert.Contains(t, out, "#about_us")
	assert.Contains(t, out, `only "About Us" is reachable`)
	assert.Contains(t, out, "md/draft.md is not in the sitemap")
}

func TestCheckDocumentExcludes(t *testing.T) {
	cfgPath := writeSite(t, "- Index\n- About Us\n")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.DocumentExcludes = []string{"draft.md"}
	require.NoError(t, cfg.Save(cfgPath))

	out, err := run(t, "--config", cfgPath, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "every page reachable")
	assert.NotContains(t, out, "not in the sitemap")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mdparty dev\n", out)
}

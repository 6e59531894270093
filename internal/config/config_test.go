package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".", cfg.ContentDir)
	assert.Equal(t, "config.json", cfg.ConfigLocation)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, LogConsole, cfg.LogFormat)
	assert.Equal(t, []string{"**/*.md"}, cfg.DocumentPatterns)
	assert.Empty(t, cfg.DocumentExcludes)
	assert.False(t, cfg.Remote())
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mdparty.yml")

	original := DefaultConfig()
	original.ContentDir = "site"
	original.ConfigLocation = "site.yaml"
	original.Port = 9000
	original.StrictSlugs = true
	original.FetchTimeout = 5 * time.Second
	original.AssetPatterns = []string{"**/*.css"}
	original.DocumentPatterns = []string{"**/*.md", "**/*.markdown"}
	original.DocumentExcludes = []string{"drafts/**"}

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(filepath.Join(dir, "nonexistent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("MDPARTY_CONTENT_URL", "https://example.com/docs/")
	t.Setenv("MDPARTY_PORT", "9090")
	t.Setenv("MDPARTY_STRICT_SLUGS", "true")
	t.Setenv("MDPARTY_FETCH_TIMEOUT", "30s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs/", loaded.ContentURL)
	assert.True(t, loaded.Remote())
	assert.Equal(t, 9090, loaded.Port)
	assert.True(t, loaded.StrictSlugs)
	assert.Equal(t, 30*time.Second, loaded.FetchTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"remote", func(c *Config) { c.ContentURL = "https://example.com/docs/" }, false},
		{"remote and explicit dir", func(c *Config) {
			c.ContentURL = "https://example.com/"
			c.ContentDir = "site"
		}, true},
		{"relative url", func(c *Config) { c.ContentURL = "docs/" }, true},
		{"ftp url", func(c *Config) { c.ContentURL = "ftp://example.com/" }, true},
		{"no source", func(c *Config) { c.ContentDir = "" }, true},
		{"no config location", func(c *Config) { c.ConfigLocation = "" }, true},
		{"negative port", func(c *Config) { c.Port = -1 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"negative timeout", func(c *Config) { c.FetchTimeout = -time.Second }, true},
		{"json logs", func(c *Config) { c.LogFormat = LogJSON }, false},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"bad pattern", func(c *Config) { c.AssetPatterns = []string{"[a-"} }, true},
		{"bad document pattern", func(c *Config) { c.DocumentPatterns = []string{"[a-"} }, true},
		{"bad document exclude", func(c *Config) { c.DocumentExcludes = []string{"[a-"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

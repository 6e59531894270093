package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdparty/internal/config"
	"github.com/ziadkadry99/mdparty/internal/content"
	"github.com/ziadkadry99/mdparty/internal/router"
	"github.com/ziadkadry99/mdparty/internal/walker"
)

var (
	faint          = color.New(color.Faint).SprintFunc()
	infoPrinter    = color.New(color.Bold)
	errorPrinter   = color.New(color.FgRed, color.Bold)
	warningPrinter = color.New(color.FgYellow, color.Bold)
	successPrinter = color.New(color.FgGreen, color.Bold)
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the whole site and report its pages and slug collisions",
	Long: `Loads the site config, the sitemap, every page and the layout exactly as
serve would, then lists each page with the fragment that reaches it.
Pages shadowed by an earlier page with the same slug are reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, f, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		strict := cfg.StrictSlugs || checkStrict
		// Collisions are reported below rather than failing the load.
		cfg.StrictSlugs = false

		loaded, err := newLoader(cfg, f, logger).Load(cmd.Context())
		if err != nil {
			errorPrinter.Fprintf(cmd.ErrOrStderr(), "Site failed to load: %v\n", err)
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		infoPrinter.Fprintf(out, "%s\n", loaded.Config.Title)
		fmt.Fprintf(out, "%s\n\n", faint("source: "+f.Base().String()))

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Page", "Fragment", "Title", "Reachable"})
		for i, name := range loaded.Sitemap {
			doc, _ := loaded.Page(name)
			reachable := "yes"
			if !loaded.Sitemap.Reachable(name) {
				reachable = "no"
			}
			t.AppendRow(table.Row{i + 1, name, router.Href(name), doc.Title, reachable})
		}
		t.Render()
		fmt.Fprintln(out)

		parts := make([]string, 0, len(loaded.Layout))
		for _, part := range loaded.Config.Layout.Parts {
			if _, ok := loaded.Part(part); ok {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			fmt.Fprintf(out, "Layout parts: %s\n", strings.Join(parts, ", "))
		}
		if ref := loaded.Config.StylesheetRef(); ref != "" {
			fmt.Fprintf(out, "Stylesheet: %s\n", ref)
		}

		if !cfg.Remote() {
			if err := reportOrphans(cmd, cfg, loaded); err != nil {
				logger.Warnw("listing local documents", "error", err)
			}
		}

		collisions := content.SlugCollisions(loaded.Sitemap)
		if len(collisions) == 0 {
			successPrinter.Fprintf(out, "\n✓ %d pages, every page reachable\n", len(loaded.Sitemap))
			return nil
		}

		for _, c := range collisions {
			warningPrinter.Fprintf(out, "\n! fragment #%s is shared by %s; only %q is reachable\n",
				c.Slug, strings.Join(c.Names, ", "), c.Names[0])
		}
		if strict {
			return &content.SlugCollisionError{Collisions: collisions}
		}
		return nil
	},
}

// reportOrphans lists Markdown documents under the pages prefix that no
// sitemap entry leads to.
func reportOrphans(cmd *cobra.Command, cfg *config.Config, loaded *content.Site) error {
	prefix := loaded.Config.Pages.FetchPrefix
	docs, err := walker.Walk(walker.Config{
		Fs:      afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), cfg.ContentDir)),
		Root:    "/" + prefix,
		Include: cfg.DocumentPatterns,
		Exclude: cfg.DocumentExcludes,
	})
	if err != nil {
		return err
	}

	refs := lo.Map(content.PageSources(loaded.Config, loaded.Sitemap), func(s content.Source, _ int) string {
		return s.URL
	})
	for _, orphan := range walker.Orphans(docs, prefix, refs) {
		warningPrinter.Fprintf(cmd.OutOrStdout(), "! %s is not in the sitemap\n", orphan)
	}
	return nil
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when two pages share a slug")
	rootCmd.AddCommand(checkCmd)
}

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdparty/internal/router"
	"github.com/ziadkadry99/mdparty/internal/site"
)

var (
	renderOutput    string
	renderAssetBase string
)

var renderCmd = &cobra.Command{
	Use:   "render [fragment]",
	Short: "Render the page a fragment leads to as a standalone HTML document",
	Long: `Loads the site and renders the view a browser opening the given fragment
(for example "#getting_started") would show. Without a fragment the first
sitemap page is rendered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, f, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		loaded, err := newLoader(cfg, f, logger).Load(cmd.Context())
		if err != nil {
			return err
		}

		fragment := ""
		if len(args) == 1 {
			fragment = args[0]
		}
		store := router.NewStore()
		loc := router.NewMemoryLocation(fragment)
		nav := router.NewNavigator(store, loc)
		loc.OnChange(nav.OnFragmentChange)
		nav.Start(loaded.Sitemap)

		assetBase := renderAssetBase
		if !cmd.Flags().Changed("asset-base") && cfg.Remote() {
			assetBase = f.Base().String()
		}

		state := store.GetState()
		if state.NotFound {
			logger.Warnw("no page matches fragment", "fragment", fragment)
		}

		var buf bytes.Buffer
		if err := site.Render(&buf, site.Model{
			State:     state,
			Site:      loaded,
			AssetBase: assetBase,
		}); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}

		if renderOutput == "" || renderOutput == "-" {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(renderOutput, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOutput, err)
		}
		logger.Infow("rendered", "page", state.Page, "output", renderOutput)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the document to this file instead of stdout")
	renderCmd.Flags().StringVar(&renderAssetBase, "asset-base", "", "prefix for the site stylesheet link (defaults to the content URL when remote)")
	rootCmd.AddCommand(renderCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mdparty",
	Short: "Serve a Markdown site described by a config, a sitemap and a layout",
	Long: `mdparty loads a site from a directory or a base URL: a site config, a
sitemap listing the pages in navigation order, the Markdown page documents
and optional header and footer parts. Pages are addressed by the URL
fragment of their slug, so every page has a shareable link.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".mdparty.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mdparty/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mdparty configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure where mdparty finds the site content and generates a .mdparty.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogforge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize blogforge configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the generation service, default tone and length, and relay backend, and writes them to .blogforge.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogforge/internal/logging"
)

var (
	cfgFile string
	verbose bool
	logger  = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "blogforge",
	Short: "Stream AI-written blog posts into your terminal",
	Long: `blogforge asks a streaming generation service for a blog post on any
topic, in the tone and length you choose, and prints it as it is written.
Posts can be copied, saved as text, markdown or HTML, or rendered in the
terminal. A self-hosted relay and an MCP tool server are included.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".blogforge.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/blogforge/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing a generate_blog_post tool backed by the configured generation service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var opts []mcpserver.Option
		opts = append(opts, mcpserver.WithLogger(logger))
		store, closeDB, err := openEventStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: analytics disabled: %v\n", err)
		} else {
			opts = append(opts, mcpserver.WithTracker(store))
		}
		defer closeDB()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "blogforge MCP server started on stdio (endpoint=%s)\n", cfg.Endpoint)

		srv := mcpserver.NewServer(newTransport(cfg), mcpserver.Defaults{
			AppID:  cfg.AppID,
			Tone:   cfg.Tone,
			Length: cfg.Length,
		}, opts...)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogforge/internal/config"
	"github.com/ziadkadry99/blogforge/internal/llm"
	"github.com/ziadkadry99/blogforge/internal/relay"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run a self-hosted generation service",
	Long: `Starts a WebSocket generation service speaking the same protocol as the
hosted one. Point the endpoint setting at ws://localhost:<port>` + relay.StreamPath + `
to use it.`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	relayCmd.Flags().String("provider", "", "backend: scripted, openai, openrouter, minimax, ollama (overrides config)")
	relayCmd.Flags().StringSlice("app-id", nil, "accepted app ids (repeatable; default accepts any)")
	relayCmd.Flags().Bool("allow-all-origins", false, "allow cross-origin requests from any origin")
	rootCmd.AddCommand(relayCmd)
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Relay.Port = port
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Relay.Provider = p
		cfg.Relay.Model = ""
	}
	appIDs, _ := cmd.Flags().GetStringSlice("app-id")
	if len(appIDs) == 0 {
		appIDs = cfg.Relay.AppIDs
	}
	allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

	provider, err := newRelayProvider(cfg)
	if err != nil {
		return fmt.Errorf("creating relay provider: %w", err)
	}

	var opts []relay.Option
	store, closeDB, err := openEventStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: analytics disabled: %v\n", err)
	} else {
		opts = append(opts, relay.WithEvents(store))
	}
	defer closeDB()

	srv := relay.New(relay.Config{
		Port:     cfg.Relay.Port,
		AppIDs:   appIDs,
		AllowAll: allowAll,
		Model:    cfg.RelayModel(),
	}, provider, logger, opts...)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down relay...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "blogforge relay v%s starting on port %d\n", Version, cfg.Relay.Port)
	fmt.Fprintf(os.Stderr, "  Provider: %s\n", provider.Name())
	fmt.Fprintf(os.Stderr, "  Endpoint: ws://localhost:%d%s\n", cfg.Relay.Port, relay.StreamPath)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newRelayProvider builds the relay backend from config.
func newRelayProvider(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(cfg.Relay.Provider, cfg.RelayModel())
	if err != nil {
		return nil, err
	}
	if scripted, ok := provider.(*llm.ScriptedProvider); ok {
		scripted.Delay = time.Duration(cfg.Relay.ChunkDelayMS) * time.Millisecond
	}
	if cfg.Relay.RPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.Relay.RPM)
	}
	return provider, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/ziadkadry99/blogforge/internal/config"
	"github.com/ziadkadry99/blogforge/internal/db"
	"github.com/ziadkadry99/blogforge/internal/events"
	"github.com/ziadkadry99/blogforge/internal/prefs"
	"github.com/ziadkadry99/blogforge/internal/transport"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `blogforge init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openEventStore opens the analytics database under the data directory.
// The returned close function is safe to call when err is non-nil.
func openEventStore(cfg *config.Config) (*events.Store, func(), error) {
	dbPath := filepath.Join(cfg.DataPath(), "blogforge.db")
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug().Str("path", dbPath).Msg("analytics database open")
	return events.NewStore(database), func() { database.Close() }, nil
}

// tracker records CLI-side events. A nil tracker drops them.
type tracker struct {
	store *events.Store
}

func (t tracker) track(name string, data map[string]any) {
	if t.store == nil {
		return
	}
	if err := t.store.Track(context.Background(), name, data); err != nil {
		logger.Warn().Err(err).Str("event", name).Msg("tracking event")
	}
}

func newTransport(cfg *config.Config) *transport.WebSocket {
	return transport.New(cfg.Endpoint, transport.WithLogger(logger))
}

func currentTheme() prefs.Theme {
	theme, err := prefs.NewStore(prefs.DefaultPath()).Theme()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return theme
}

// terminalWidth returns the width of stdout, or 80 when it is not a
// terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogforge/internal/events"
	"github.com/ziadkadry99/blogforge/internal/prefs"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the colour theme",
	Long:      `Without an argument, prints the saved theme. With light or dark, saves that theme; toggle switches to the other one.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := prefs.NewStore(prefs.DefaultPath())

		if len(args) == 0 {
			theme, err := store.Theme()
			if err != nil {
				return err
			}
			fmt.Println(theme)
			return nil
		}

		var (
			theme prefs.Theme
			err   error
		)
		if args[0] == "toggle" {
			theme, err = store.Toggle()
		} else {
			if theme, err = prefs.ParseTheme(args[0]); err == nil {
				err = store.SetTheme(theme)
			}
		}
		if err != nil {
			return err
		}
		fmt.Printf("Theme set to %s\n", theme)

		if cfg, err := loadConfig(); err == nil {
			evs, closeDB, err := openEventStore(cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: analytics disabled: %v\n", err)
			}
			defer closeDB()
			tracker{store: evs}.track(events.ThemeToggled, map[string]any{"theme": string(theme)})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

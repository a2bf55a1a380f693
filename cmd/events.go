package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogforge/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List locally recorded analytics events",
	Long:  `Lists the analytics events blogforge has recorded, newest first. Generated text is never recorded.`,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().String("name", "", "only show events with this name")
	eventsCmd.Flags().Duration("since", 0, "only show events from the last duration (e.g. 24h)")
	eventsCmd.Flags().Int("limit", 50, "maximum number of events to show")
	eventsCmd.Flags().Duration("prune", 0, "delete events older than this duration instead of listing")
	eventsCmd.Flags().Bool("counts", false, "show the number of events per name")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeDB, err := openEventStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := context.Background()
	name, _ := cmd.Flags().GetString("name")
	since, _ := cmd.Flags().GetDuration("since")
	limit, _ := cmd.Flags().GetInt("limit")
	prune, _ := cmd.Flags().GetDuration("prune")
	counts, _ := cmd.Flags().GetBool("counts")

	if prune > 0 {
		n, err := store.DeleteBefore(ctx, time.Now().Add(-prune))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d events older than %s\n", n, prune)
		return nil
	}

	cyan := color.New(color.FgCyan)
	dim := color.New(color.FgHiBlack)

	if counts {
		byName, err := store.Counts(ctx)
		if err != nil {
			return err
		}
		for n, c := range byName {
			fmt.Printf("%-22s %d\n", cyan.Sprint(n), c)
		}
		return nil
	}

	filter := events.Filter{Name: name, Limit: limit}
	if since > 0 {
		t := time.Now().Add(-since)
		filter.Since = &t
	}
	evs, err := store.Query(ctx, filter)
	if err != nil {
		return err
	}
	if len(evs) == 0 {
		dim.Println("No events recorded.")
		return nil
	}

	for _, ev := range evs {
		data := ""
		if len(ev.Data) > 0 {
			b, _ := json.Marshal(ev.Data)
			data = string(b)
		}
		fmt.Printf("%s  %-22s %s\n",
			dim.Sprint(ev.Timestamp.Local().Format(time.DateTime)),
			cyan.Sprint(ev.Name),
			data,
		)
	}
	return nil
}

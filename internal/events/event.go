// Package events records analytics events in the local database.
package events

import "time"

// Names of the events blogforge records.
const (
	GenerationStarted   = "generation_started"
	GenerationCompleted = "generation_completed"
	GenerationFailed    = "generation_failed"
	GenerationStopped   = "generation_stopped"
	OutputCleared       = "output_cleared"
	ContentCopied       = "content_copied"
	ContentDownloaded   = "content_downloaded"
	ThemeToggled        = "theme_toggled"
	StreamServed        = "stream_served"
)

// Event is a single analytics record. Data never carries generated text.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data"`
}

package ui

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner wraps a terminal spinner for the connecting state.
type Spinner struct {
	s       *spinner.Spinner
	running bool
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(w io.Writer, msg, colour string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = "  " + msg
	_ = s.Color(colour)
	return &Spinner{s: s}
}

// Start begins the spinner animation.
func (sp *Spinner) Start() {
	if sp.running {
		return
	}
	sp.running = true
	sp.s.Start()
}

// Stop halts the spinner and clears the line.
func (sp *Spinner) Stop() {
	if !sp.running {
		return
	}
	sp.running = false
	sp.s.Stop()
}

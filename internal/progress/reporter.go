// Package progress reports how far a streamed post has come relative to
// its requested length.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a post is being written.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive
// terminal, or a CIReporter if the CI environment variable is set or w is
// not a terminal.
func NewReporter(w io.Writer, tty bool) Reporter {
	if !tty || os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
	max int
}

func (r *TerminalReporter) Start(total int) {
	if total <= 0 {
		total = -1
	}
	r.max = total
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Writing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	// Posts routinely overshoot their target; hold the bar just short of
	// full so it only completes on Finish.
	if r.max > 0 && current >= r.max {
		current = r.max - 1
	}
	r.bar.Describe(message)
	_ = r.bar.Set(current)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// CIReporter prints line-by-line progress suitable for CI logs. Only every
// tenth update is printed.
type CIReporter struct {
	w       io.Writer
	total   int
	updates int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	r.updates = 0
	fmt.Fprintf(r.w, "Generating a post of about %d words\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	r.updates++
	if r.updates%10 != 1 {
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "Generation finished")
}

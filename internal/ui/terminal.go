// Package ui renders a generation session in a terminal: streamed text on
// stdout, spinner, progress and toasts on stderr.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ziadkadry99/blogforge/internal/generator"
	"github.com/ziadkadry99/blogforge/internal/prefs"
	"github.com/ziadkadry99/blogforge/internal/progress"
)

// Options configures a Terminal.
type Options struct {
	// Out receives the generated text.
	Out io.Writer
	// Err receives status output.
	Err   io.Writer
	Theme prefs.Theme
	// Quiet suppresses streamed text and shows a word-count progress bar
	// against Target instead.
	Quiet  bool
	Target int
	// TTY enables colour and the spinner.
	TTY bool
	// OnFocus runs when the session asks for a new topic.
	OnFocus func()
}

// Terminal implements generator.Surface.
type Terminal struct {
	opts     Options
	palette  Palette
	spin     *Spinner
	reporter progress.Reporter

	busy      bool
	reporting bool
	wrote     bool
	lastNL    bool
	words     int
}

// NewTerminal creates a Terminal surface.
func NewTerminal(opts Options) *Terminal {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	p := PaletteFor(opts.Theme)
	if !opts.TTY {
		p.disableColor()
	}
	t := &Terminal{
		opts:     opts,
		palette:  p,
		reporter: progress.NewReporter(opts.Err, opts.TTY),
	}
	if opts.TTY {
		t.spin = NewSpinner(opts.Err, "Generating your blog post...", p.Spinner)
	}
	return t
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) SetBusy(busy bool) {
	t.busy = busy
	if busy {
		t.words = 0
		if t.opts.Quiet {
			t.reporter.Start(t.opts.Target)
			t.reporting = true
		} else if t.spin != nil {
			t.spin.Start()
		}
		return
	}
	t.stopSpinner()
	if t.reporting {
		t.reporter.Finish()
		t.reporting = false
	}
}

func (t *Terminal) ClearOutput() {
	if t.wrote && !t.opts.Quiet {
		t.endLine()
		fmt.Fprintln(t.opts.Out)
	}
	t.wrote = false
	t.lastNL = false
}

func (t *Terminal) AppendText(chunk string) {
	t.stopSpinner()
	if t.opts.Quiet || chunk == "" {
		return
	}
	io.WriteString(t.opts.Out, chunk)
	t.wrote = true
	t.lastNL = strings.HasSuffix(chunk, "\n")
}

func (t *Terminal) ShowWordCount(n int) {
	t.words = n
	if t.reporting {
		t.reporter.Update(n, fmt.Sprintf("%d words", n))
	}
}

func (t *Terminal) ReportOutcome(kind generator.OutcomeKind, message string) {
	t.stopSpinner()
	t.endLine()

	c := t.palette.Error
	symbol := "✗"
	switch kind {
	case generator.OutcomeSuccess:
		c, symbol = t.palette.Success, "✓"
	case generator.OutcomeWarning:
		c, symbol = t.palette.Warning, "!"
	case generator.OutcomeStopped:
		c, symbol = t.palette.Stopped, "■"
	}
	c.Fprintf(t.opts.Err, "  %s %s", symbol, message)
	if t.words > 0 && (kind == generator.OutcomeSuccess || kind == generator.OutcomeStopped) {
		t.palette.Dim.Fprintf(t.opts.Err, " (word count: %d)", t.words)
	}
	fmt.Fprintln(t.opts.Err)
}

func (t *Terminal) FocusInput() {
	if t.opts.OnFocus != nil {
		t.opts.OnFocus()
	}
}

// ScrollToLatest is a no-op: the terminal follows its output.
func (t *Terminal) ScrollToLatest() {}

// Notice prints an informational line in the accent colour.
func (t *Terminal) Notice(format string, args ...any) {
	t.palette.Accent.Fprintf(t.opts.Err, "  "+format+"\n", args...)
}

func (t *Terminal) stopSpinner() {
	if t.spin != nil {
		t.spin.Stop()
	}
}

// endLine terminates a partial line of streamed text so status output
// starts on a fresh line.
func (t *Terminal) endLine() {
	if t.wrote && !t.lastNL {
		fmt.Fprintln(t.opts.Out)
		t.lastNL = true
	}
}

var _ generator.Surface = (*Terminal)(nil)

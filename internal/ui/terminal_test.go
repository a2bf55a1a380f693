package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ziadkadry99/blogforge/internal/generator"
	"github.com/ziadkadry99/blogforge/internal/prefs"
)

func newTestTerminal(quiet bool) (*Terminal, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	term := NewTerminal(Options{
		Out:    &out,
		Err:    &errOut,
		Theme:  prefs.ThemeLight,
		Quiet:  quiet,
		Target: 100,
	})
	return term, &out, &errOut
}

func TestTerminalStreamsTextVerbatim(t *testing.T) {
	term, out, errOut := newTestTerminal(false)

	term.SetBusy(true)
	term.ClearOutput()
	for _, chunk := range []string{"# Title\n", "Hello ", "world"} {
		term.AppendText(chunk)
	}
	term.ShowWordCount(4)
	term.SetBusy(false)
	term.ReportOutcome(generator.OutcomeSuccess, "Blog post generated successfully!")

	if got, want := out.String(), "# Title\nHello world\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	status := errOut.String()
	if !strings.Contains(status, "✓ Blog post generated successfully!") {
		t.Errorf("missing success toast in %q", status)
	}
	if !strings.Contains(status, "word count: 4") {
		t.Errorf("missing word count in %q", status)
	}
}

func TestTerminalErrorToastHasNoWordCount(t *testing.T) {
	term, _, errOut := newTestTerminal(false)

	term.SetBusy(true)
	term.AppendText("partial")
	term.ShowWordCount(1)
	term.SetBusy(false)
	term.ReportOutcome(generator.OutcomeError, "Connection lost. Please try again.")

	status := errOut.String()
	if !strings.Contains(status, "✗ Connection lost. Please try again.") {
		t.Errorf("missing error toast in %q", status)
	}
	if strings.Contains(status, "word count") {
		t.Errorf("error toast should not carry a word count: %q", status)
	}
}

func TestTerminalQuietModeReportsProgress(t *testing.T) {
	term, out, errOut := newTestTerminal(true)

	term.SetBusy(true)
	term.AppendText("one two three")
	term.ShowWordCount(3)
	term.SetBusy(false)
	term.ReportOutcome(generator.OutcomeStopped, "Generation stopped")

	if out.Len() != 0 {
		t.Errorf("quiet mode wrote text to stdout: %q", out.String())
	}
	status := errOut.String()
	for _, want := range []string{"about 100 words", "[3/100] 3 words", "Generation finished", "■ Generation stopped"} {
		if !strings.Contains(status, want) {
			t.Errorf("status missing %q:\n%s", want, status)
		}
	}
}

func TestTerminalClearSeparatesRuns(t *testing.T) {
	term, out, _ := newTestTerminal(false)

	term.AppendText("first")
	term.ClearOutput()
	term.AppendText("second\n")

	if got, want := out.String(), "first\n\nsecond\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestTerminalFocusInput(t *testing.T) {
	called := 0
	term := NewTerminal(Options{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}, OnFocus: func() { called++ }})
	term.FocusInput()
	if called != 1 {
		t.Errorf("OnFocus called %d times, want 1", called)
	}

	// Without a callback FocusInput must not panic.
	NewTerminal(Options{Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}).FocusInput()
}

func TestPaletteForThemes(t *testing.T) {
	if PaletteFor(prefs.ThemeDark).Spinner != "cyan" {
		t.Error("dark palette should use a cyan spinner")
	}
	if PaletteFor(prefs.ThemeLight).Spinner != "blue" {
		t.Error("light palette should use a blue spinner")
	}
}

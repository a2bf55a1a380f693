package ui

import (
	"github.com/fatih/color"

	"github.com/ziadkadry99/blogforge/internal/prefs"
)

// Palette holds the colours used for toasts and status lines.
type Palette struct {
	Success *color.Color
	Warning *color.Color
	Stopped *color.Color
	Error   *color.Color
	Dim     *color.Color
	Accent  *color.Color
	// Spinner is a briandowns/spinner colour name.
	Spinner string
}

// PaletteFor returns the palette for a theme. Light terminals get darker,
// non-bright colours so they stay legible on a white background.
func PaletteFor(t prefs.Theme) Palette {
	if t == prefs.ThemeDark {
		return Palette{
			Success: color.New(color.FgHiGreen),
			Warning: color.New(color.FgHiYellow),
			Stopped: color.New(color.FgHiCyan),
			Error:   color.New(color.FgHiRed),
			Dim:     color.New(color.FgHiBlack),
			Accent:  color.New(color.FgHiCyan, color.Bold),
			Spinner: "cyan",
		}
	}
	return Palette{
		Success: color.New(color.FgGreen),
		Warning: color.New(color.FgYellow),
		Stopped: color.New(color.FgBlue),
		Error:   color.New(color.FgRed),
		Dim:     color.New(color.FgBlack),
		Accent:  color.New(color.FgBlue, color.Bold),
		Spinner: "blue",
	}
}

func (p Palette) disableColor() {
	for _, c := range []*color.Color{p.Success, p.Warning, p.Stopped, p.Error, p.Dim, p.Accent} {
		c.DisableColor()
	}
}

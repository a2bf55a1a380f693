// Package prefs persists the single user preference blogforge keeps
// between runs: the colour theme.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Theme selects the terminal palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies when nothing has been saved yet.
const DefaultTheme = ThemeLight

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("unknown theme %q: must be light or dark", s)
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type file struct {
	Theme Theme `yaml:"theme"`
}

// Store reads and writes preferences at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the preferences file under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "blogforge", "prefs.yml")
}

func (s *Store) Path() string { return s.path }

// Theme returns the saved theme, or DefaultTheme when none is saved or the
// saved value is unrecognised.
func (s *Store) Theme() (Theme, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultTheme, nil
	}
	if err != nil {
		return DefaultTheme, fmt.Errorf("reading preferences: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return DefaultTheme, fmt.Errorf("parsing preferences %s: %w", s.path, err)
	}
	if t, err := ParseTheme(string(f.Theme)); err == nil {
		return t, nil
	}
	return DefaultTheme, nil
}

// SetTheme saves t.
func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	data, err := yaml.Marshal(file{Theme: t})
	if err != nil {
		return fmt.Errorf("marshalling preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing preferences to %s: %w", s.path, err)
	}
	return nil
}

// Toggle flips the saved theme and returns the new one.
func (s *Store) Toggle() (Theme, error) {
	current, err := s.Theme()
	if err != nil {
		return current, err
	}
	next := current.Opposite()
	if err := s.SetTheme(next); err != nil {
		return current, err
	}
	return next, nil
}

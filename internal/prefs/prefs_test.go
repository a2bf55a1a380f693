package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestThemeDefaultsWhenMissing(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yml"))
	got, err := s.Theme()
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if got != ThemeLight {
		t.Errorf("Theme() = %q, want %q", got, ThemeLight)
	}
}

func TestSetThemeCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blogforge", "prefs.yml")
	s := NewStore(path)

	if err := s.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	got, err := s.Theme()
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if got != ThemeDark {
		t.Errorf("Theme() = %q, want %q", got, ThemeDark)
	}
}

func TestToggle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yml"))

	want := []Theme{ThemeDark, ThemeLight, ThemeDark}
	for i, w := range want {
		got, err := s.Toggle()
		if err != nil {
			t.Fatalf("Toggle #%d: %v", i, err)
		}
		if got != w {
			t.Errorf("Toggle #%d = %q, want %q", i, got, w)
		}
	}
}

func TestThemeIgnoresUnknownValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	if err := os.WriteFile(path, []byte("theme: neon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := NewStore(path).Theme()
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if got != DefaultTheme {
		t.Errorf("Theme() = %q, want default", got)
	}
}

func TestThemeRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	if err := os.WriteFile(path, []byte("theme: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path).Theme(); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", ThemeLight, false},
		{"dark", ThemeDark, false},
		{"Dark", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSetThemeRejectsInvalid(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "prefs.yml"))
	if err := s.SetTheme("sepia"); err == nil {
		t.Error("expected error for invalid theme")
	}
}

// Package export moves generated posts out of the terminal: to files, to
// the clipboard, or through a markdown renderer.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNoContent is returned when there is nothing to export.
var ErrNoContent = errors.New("no content")

// Format is an output file format.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "txt", "text", "":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

var unsafeChars = regexp.MustCompile(`(?i)[^a-z0-9]`)

// Filename derives a download name from a topic: every character outside
// [a-z0-9] (either case) becomes '-', then the result is lowercased. An
// empty topic becomes "blog-post".
func Filename(topic string, f Format) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "blog-post"
	}
	return strings.ToLower(unsafeChars.ReplaceAllString(topic, "-")) + "." + string(f)
}

// Download writes text into dir under a name derived from topic and
// returns the path written.
func Download(dir, topic, text string, f Format) (string, error) {
	path := filepath.Join(dir, Filename(topic, f))
	if err := WriteFile(path, topic, text, f); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes text to path in the given format.
func WriteFile(path, topic, text string, f Format) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoContent
	}

	data := []byte(text)
	if f == FormatHTML {
		page, err := RenderHTML(topic, text)
		if err != nil {
			return err
		}
		data = page
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Save writes text to target. A directory target receives a file named
// after the topic; any other target is written as-is with the format taken
// from its extension.
func Save(target, topic, text string) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return Download(target, topic, text, FormatText)
	}
	f, err := ParseFormat(filepath.Ext(target))
	if err != nil {
		return "", err
	}
	if err := WriteFile(target, topic, text, f); err != nil {
		return "", err
	}
	return target, nil
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Copy places text on the system clipboard.
func Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoContent
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

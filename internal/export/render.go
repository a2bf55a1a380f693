package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ziadkadry99/blogforge/internal/prefs"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
    pre { padding: 1rem; overflow-x: auto; border-radius: 6px; }
  </style>
</head>
<body>
<article>
{{.Content}}
</article>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// RenderHTML converts a markdown post into a standalone HTML page. Raw
// HTML in the post is not passed through.
func RenderHTML(title, text string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(text), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Blog post"
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title   string
		Content template.HTML
	}{title, template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return out.Bytes(), nil
}

// RenderTerminal styles markdown for display in a terminal. On failure
// the plain text is returned along with the error.
func RenderTerminal(text string, theme prefs.Theme, width int) (string, error) {
	if text == "" {
		return "", nil
	}
	if width <= 0 {
		width = 80
	}
	style := "light"
	if theme == prefs.ThemeDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return text, err
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text, err
	}
	return rendered, nil
}

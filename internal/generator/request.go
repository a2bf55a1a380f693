package generator

import (
	"fmt"
	"strings"
)

// Request holds the user-supplied parameters of one generation.
type Request struct {
	Topic  string
	Tone   string
	Length string
}

// Normalize returns a copy of r with the topic trimmed.
func (r Request) Normalize() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	return r
}

// Validate rejects a request whose topic is empty after trimming.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrValidation)
	}
	return nil
}

// Prompt renders the natural-language instruction sent to the generation
// service.
func (r Request) Prompt() string {
	return fmt.Sprintf(
		"Generate a %s blog post on \"%s\" that is approximately %s words long. "+
			"Include proper headings, subheadings, and make it SEO-optimized with engaging content.",
		r.Tone, strings.TrimSpace(r.Topic), r.Length,
	)
}

// payload is the single frame sent after the connection opens.
type payload struct {
	AppID  string `json:"appId"`
	Prompt string `json:"prompt"`
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

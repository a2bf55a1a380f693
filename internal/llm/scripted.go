package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ScriptedProvider streams canned text word by word. It backs the relay
// when no model API is configured and keeps tests deterministic.
type ScriptedProvider struct {
	// Text is streamed verbatim. When empty, a short post derived from the
	// prompt is used instead.
	Text string
	// Delay is slept between chunks.
	Delay time.Duration
}

func (p *ScriptedProvider) Name() string {
	return "scripted"
}

func (p *ScriptedProvider) Stream(ctx context.Context, req StreamRequest, emit func(string) error) error {
	text := p.Text
	if text == "" {
		text = draftFor(lastUserMessage(req.Messages))
	}
	for _, chunk := range SplitWords(text) {
		if p.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return nil
}

// SplitWords cuts text after every space so the pieces concatenate back to
// the original.
func SplitWords(text string) []string {
	if text == "" {
		return nil
	}
	return strings.SplitAfter(text, " ")
}

func lastUserMessage(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

func draftFor(prompt string) string {
	var b strings.Builder
	b.WriteString("# Draft\n\n")
	b.WriteString("## Brief\n\n")
	fmt.Fprintf(&b, "> %s\n\n", strings.TrimSpace(prompt))
	b.WriteString("## Introduction\n\n")
	b.WriteString("This draft was produced by the scripted relay backend. ")
	b.WriteString("Configure a model provider to stream real content.\n\n")
	b.WriteString("## Conclusion\n\n")
	b.WriteString("Thanks for reading.\n")
	return b.String()
}

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/blogforge/internal/config"
	"github.com/ziadkadry99/blogforge/internal/generator"
)

// handleGenerateBlogPost streams one post to completion and returns its text.
func (s *Server) handleGenerateBlogPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil || strings.TrimSpace(topic) == "" {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}

	tone := config.Tone(request.GetString("tone", string(s.defaults.Tone)))
	if !config.ValidTone(tone) {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported tone %q", tone)), nil
	}

	length := s.defaults.Length
	if n := request.GetInt("length", 0); n > 0 {
		length = strconv.Itoa(n)
	}

	out, err := s.generate(ctx, generator.Request{Topic: topic, Tone: string(tone), Length: length})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}
	if out.Kind != generator.OutcomeSuccess {
		msg := out.Message
		if out.Err != nil {
			msg = fmt.Sprintf("%s (%v)", msg, out.Err)
		}
		return mcp.NewToolResultError(msg), nil
	}

	return mcp.NewToolResultText(out.Text), nil
}

// handleListTones returns the supported tones, one per line.
func (s *Server) handleListTones(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(toneNames(), "\n")), nil
}

// generate runs a Driver until the first outcome. The driver is stopped
// when the call returns, which closes any connection left open.
func (s *Server) generate(ctx context.Context, req generator.Request) (generator.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := []generator.Option{generator.WithLogger(s.log)}
	if s.defaults.AppID != "" {
		opts = append(opts, generator.WithAppID(s.defaults.AppID))
	}
	if s.tracker != nil {
		opts = append(opts, generator.WithTracker(s.tracker))
	}
	d := generator.NewDriver(s.transport, headless{}, opts...)

	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(runCtx)
	}()
	defer func() {
		stop()
		<-done
	}()

	d.Submit(req)
	out, err := d.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return out, fmt.Errorf("timed out after %s", s.timeout)
	}
	return out, err
}

// headless is a Surface with nothing to draw on; results travel through
// the driver's outcomes.
type headless struct{}

func (headless) SetBusy(bool)                                {}
func (headless) ClearOutput()                                {}
func (headless) AppendText(string)                           {}
func (headless) ShowWordCount(int)                           {}
func (headless) ReportOutcome(generator.OutcomeKind, string) {}
func (headless) FocusInput()                                 {}
func (headless) ScrollToLatest()                             {}

// Package generator drives a single streaming blog generation against a
// remote service and reports its progress to a user interface.
package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultAppID is the application identifier sent with every request.
const DefaultAppID = "economic-light"

// Session owns at most one open connection and the output it produced.
//
// A Session is not safe for concurrent use: every method, including
// Handle, must be called from the same goroutine. Driver provides that
// goroutine.
type Session struct {
	transport Transport
	ui        Surface
	tracker   Tracker
	appID     string
	log       zerolog.Logger
	sink      func(Event)
	settle    func(Outcome)

	state  State
	conn   Conn
	connID ConnID
	lastID ConnID
	sent   bool
	req    Request
	buf    OutputBuffer
	words  int
}

// Option configures a Session.
type Option func(*Session)

// WithAppID sets the application identifier carried in the request frame.
func WithAppID(id string) Option {
	return func(s *Session) { s.appID = id }
}

// WithTracker records lifecycle analytics events.
func WithTracker(t Tracker) Option {
	return func(s *Session) { s.tracker = t }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithEventSink sets the function transports deliver events to. The sink
// must eventually route every event back into Handle.
func WithEventSink(sink func(Event)) Option {
	return func(s *Session) { s.sink = sink }
}

// WithOutcomeHook is called whenever a generation settles or a submission
// is rejected.
func WithOutcomeHook(fn func(Outcome)) Option {
	return func(s *Session) { s.settle = fn }
}

// NewSession creates an idle session.
func NewSession(transport Transport, ui Surface, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		ui:        ui,
		appID:     DefaultAppID,
		log:       zerolog.Nop(),
		sink:      func(Event) {},
		settle:    func(Outcome) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

// Active reports whether a connection is being established or streamed.
func (s *Session) Active() bool { return s.conn != nil }

func (s *Session) Text() string { return s.buf.String() }

func (s *Session) WordCount() int { return s.words }

// Submit starts a generation. While a generation is active the call is a
// stop request instead: submitting twice toggles.
func (s *Session) Submit(req Request) error {
	if s.Active() {
		s.Stop()
		return nil
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		s.ui.ReportOutcome(OutcomeError, msgEmptyTopic)
		s.ui.FocusInput()
		s.settle(Outcome{Kind: OutcomeError, Message: msgEmptyTopic, Err: err})
		return err
	}
	s.start(req)
	return nil
}

// Regenerate closes any active connection and starts over with req. The
// previous connection is always closed before the new one is opened.
func (s *Session) Regenerate(req Request) error {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		s.ui.ReportOutcome(OutcomeWarning, msgTopicFirst)
		s.settle(Outcome{Kind: OutcomeWarning, Message: msgTopicFirst, Err: err})
		return err
	}
	if s.Active() {
		s.log.Debug().Uint64("conn", uint64(s.connID)).Msg("closing connection for regenerate")
		s.release()
		s.track("generation_stopped", map[string]any{"reason": "regenerate"})
	}
	s.start(req)
	return nil
}

// Stop closes the active connection. It is a no-op when idle.
func (s *Session) Stop() {
	if !s.Active() {
		return
	}
	s.log.Debug().Uint64("conn", uint64(s.connID)).Msg("stopping generation")
	s.release()
	s.ui.ReportOutcome(OutcomeStopped, msgStopped)
	s.track("generation_stopped", map[string]any{"words": s.words})
	s.settle(s.outcome(OutcomeStopped, msgStopped, nil))
}

// Clear drops the accumulated output.
func (s *Session) Clear() {
	s.buf.Reset()
	s.words = 0
	s.ui.ClearOutput()
	s.ui.ShowWordCount(0)
	s.ui.ReportOutcome(OutcomeSuccess, msgOutputCleared)
	s.track("output_cleared", nil)
}

// Handle applies a transport event. Events for connections other than the
// current one are ignored.
func (s *Session) Handle(ev Event) {
	if s.conn == nil || ev.ConnID() != s.connID {
		s.log.Debug().Uint64("conn", uint64(ev.ConnID())).Msgf("dropping stale %T", ev)
		return
	}
	switch e := ev.(type) {
	case Opened:
		s.onOpen()
	case Message:
		s.onMessage(e.Data)
	case Closed:
		s.onClose(e.Code)
	case Failed:
		s.onError(e.Err)
	}
}

func (s *Session) start(req Request) {
	s.lastID++
	s.connID = s.lastID
	s.req = req
	s.sent = false
	s.state = StateConnecting
	s.buf.Reset()
	s.words = 0

	s.ui.SetBusy(true)
	s.ui.ClearOutput()

	s.log.Debug().
		Uint64("conn", uint64(s.connID)).
		Str("tone", req.Tone).
		Str("length", req.Length).
		Msg("opening connection")
	s.conn = s.transport.Open(s.connID, s.sink)
	s.track("generation_started", map[string]any{"tone": req.Tone, "length": req.Length})
}

func (s *Session) onOpen() {
	if s.sent {
		return
	}
	s.sent = true
	data, err := json.Marshal(payload{AppID: s.appID, Prompt: s.req.Prompt()})
	if err != nil {
		s.onError(fmt.Errorf("encoding request: %w", err))
		return
	}
	if err := s.conn.Send(data); err != nil {
		s.onError(fmt.Errorf("%w: sending request: %v", ErrConnection, err))
		return
	}
	s.log.Debug().Uint64("conn", uint64(s.connID)).Msg("request sent")
}

func (s *Session) onMessage(chunk string) {
	if s.state == StateConnecting {
		s.state = StateStreaming
	}
	s.buf.Append(chunk)
	s.words = CountWords(s.buf.String())
	s.ui.AppendText(chunk)
	s.ui.ShowWordCount(s.words)
	s.ui.ScrollToLatest()
}

func (s *Session) onClose(code int) {
	s.release()
	if code != CloseNormal {
		err := fmt.Errorf("%w: code %d", ErrAbnormalClose, code)
		s.log.Warn().Int("code", code).Msg("stream closed abnormally")
		s.ui.ReportOutcome(OutcomeError, msgConnLost)
		s.track("generation_failed", map[string]any{"code": code, "words": s.words})
		s.settle(s.outcome(OutcomeError, msgConnLost, err))
		return
	}
	s.ui.ReportOutcome(OutcomeSuccess, msgComplete)
	s.track("generation_completed", map[string]any{"words": s.words})
	s.settle(s.outcome(OutcomeSuccess, msgComplete, nil))
}

func (s *Session) onError(err error) {
	s.release()
	s.log.Error().Err(err).Msg("generation failed")
	s.ui.ReportOutcome(OutcomeError, msgGenError)
	s.track("generation_failed", map[string]any{"error": err.Error(), "words": s.words})
	s.settle(s.outcome(OutcomeError, msgGenError, err))
}

// release closes the connection and returns to idle.
func (s *Session) release() {
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.log.Debug().Err(err).Msg("closing connection")
		}
	}
	s.conn = nil
	s.connID = 0
	s.state = StateIdle
	s.ui.SetBusy(false)
}

func (s *Session) outcome(kind OutcomeKind, msg string, err error) Outcome {
	return Outcome{Kind: kind, Message: msg, Err: err, Text: s.buf.String(), Words: s.words}
}

func (s *Session) track(name string, data map[string]any) {
	if s.tracker == nil {
		return
	}
	if err := s.tracker.Track(context.Background(), name, data); err != nil {
		s.log.Warn().Err(err).Str("event", name).Msg("tracking event")
	}
}

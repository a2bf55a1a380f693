package generator

import (
	"context"
	"sync"
)

// Driver runs a Session on its own goroutine. Transport events and user
// commands are posted to a single inbox and applied in order, so the
// session itself never needs locking.
type Driver struct {
	session  *Session
	inbox    chan any
	outcomes chan Outcome
	done     chan struct{}
	once     sync.Once
}

type command func(*Session)

// NewDriver builds a Driver and the Session it owns. Options are applied
// to the session; the event sink and outcome hook are always the
// driver's own.
func NewDriver(transport Transport, ui Surface, opts ...Option) *Driver {
	d := &Driver{
		inbox:    make(chan any, 64),
		outcomes: make(chan Outcome, 8),
		done:     make(chan struct{}),
	}
	opts = append(opts,
		WithEventSink(func(ev Event) { d.post(ev) }),
		WithOutcomeHook(d.publish),
	)
	d.session = NewSession(transport, ui, opts...)
	return d
}

// Run processes events until ctx is cancelled. An active generation is
// stopped on the way out.
func (d *Driver) Run(ctx context.Context) error {
	defer d.once.Do(func() { close(d.done) })
	for {
		select {
		case <-ctx.Done():
			d.session.Stop()
			return ctx.Err()
		case msg := <-d.inbox:
			switch m := msg.(type) {
			case Event:
				d.session.Handle(m)
			case command:
				m(d.session)
			}
		}
	}
}

// Submit requests a generation, or a stop when one is already active.
func (d *Driver) Submit(req Request) {
	d.post(command(func(s *Session) { _ = s.Submit(req) }))
}

// Regenerate restarts generation with req.
func (d *Driver) Regenerate(req Request) {
	d.post(command(func(s *Session) { _ = s.Regenerate(req) }))
}

// Stop requests the active generation to stop.
func (d *Driver) Stop() {
	d.post(command(func(s *Session) { s.Stop() }))
}

// Clear requests the output to be cleared.
func (d *Driver) Clear() {
	d.post(command(func(s *Session) { s.Clear() }))
}

// Snapshot returns the current state, text and word count.
func (d *Driver) Snapshot(ctx context.Context) (State, string, int, error) {
	type snap struct {
		state State
		text  string
		words int
	}
	reply := make(chan snap, 1)
	d.post(command(func(s *Session) { reply <- snap{s.State(), s.Text(), s.WordCount()} }))
	select {
	case r := <-reply:
		return r.state, r.text, r.words, nil
	case <-d.done:
		return StateIdle, "", 0, context.Canceled
	case <-ctx.Done():
		return StateIdle, "", 0, ctx.Err()
	}
}

// Outcomes delivers settled generations and rejected submissions.
// Outcomes are dropped when nobody drains the channel.
func (d *Driver) Outcomes() <-chan Outcome { return d.outcomes }

// Wait blocks until the next outcome or until ctx is done.
func (d *Driver) Wait(ctx context.Context) (Outcome, error) {
	select {
	case o := <-d.outcomes:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (d *Driver) post(msg any) {
	select {
	case d.inbox <- msg:
	case <-d.done:
	}
}

func (d *Driver) publish(o Outcome) {
	select {
	case d.outcomes <- o:
	default:
	}
}

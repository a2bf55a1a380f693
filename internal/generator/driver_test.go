package generator

import (
	"context"
	"sync"
	"testing"
	"time"
)

// scriptedTransport streams a fixed list of chunks after the request frame
// arrives, then closes with code.
type scriptedTransport struct {
	chunks []string
	code   int

	mu     sync.Mutex
	opened int
	active int
	peak   int
}

type scriptedConn struct {
	t      *scriptedTransport
	id     ConnID
	sink   func(Event)
	mu     sync.Mutex
	closed bool
	sent   chan []byte
}

func (t *scriptedTransport) Open(id ConnID, sink func(Event)) Conn {
	t.mu.Lock()
	t.opened++
	t.active++
	if t.active > t.peak {
		t.peak = t.active
	}
	t.mu.Unlock()

	c := &scriptedConn{t: t, id: id, sink: sink, sent: make(chan []byte, 1)}
	go func() {
		sink(Opened{ID: id})
		select {
		case <-c.sent:
		case <-time.After(2 * time.Second):
			return
		}
		for _, chunk := range t.chunks {
			if c.isClosed() {
				return
			}
			sink(Message{ID: id, Data: chunk})
		}
		if t.code != 0 {
			sink(Closed{ID: id, Code: t.code})
		}
	}()
	return c
}

func (c *scriptedConn) Send(data []byte) error {
	c.sent <- data
	return nil
}

func (c *scriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.t.mu.Lock()
		c.t.active--
		c.t.mu.Unlock()
	}
	return nil
}

func (c *scriptedConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startDriver(t *testing.T, tr Transport) (*Driver, *recordingSurface) {
	t.Helper()
	ui := &recordingSurface{}
	d := NewDriver(tr, ui)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
	return d, ui
}

func TestDriverStreamsToCompletion(t *testing.T) {
	tr := &scriptedTransport{chunks: []string{"Hello", " ", "world"}, code: 1000}
	d, ui := startDriver(t, tr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d.Submit(validReq)
	out, err := d.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.Kind != OutcomeSuccess {
		t.Errorf("outcome = %+v, want success", out)
	}
	if out.Text != "Hello world" || out.Words != 2 {
		t.Errorf("text=%q words=%d", out.Text, out.Words)
	}

	state, text, words, err := d.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if state != StateIdle || text != "Hello world" || words != 2 {
		t.Errorf("snapshot = %v %q %d", state, text, words)
	}
	if got := ui.lastOutcome(); got.kind != OutcomeSuccess {
		t.Errorf("surface outcome = %+v", got)
	}
}

func TestDriverRejectsEmptyTopic(t *testing.T) {
	tr := &scriptedTransport{code: 1000}
	d, _ := startDriver(t, tr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d.Submit(Request{Topic: "   "})
	out, err := d.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.Kind != OutcomeError {
		t.Errorf("outcome = %+v, want error", out)
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.opened != 0 {
		t.Errorf("expected no connection, got %d", tr.opened)
	}
}

func TestDriverStopWhileStreaming(t *testing.T) {
	// No close code: the stream stays open until stopped.
	tr := &scriptedTransport{chunks: []string{"partial"}}
	d, _ := startDriver(t, tr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d.Submit(validReq)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, _, _, _ := d.Snapshot(ctx)
		if state == StateStreaming {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	d.Submit(validReq) // toggles to stop
	out, err := d.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.Kind != OutcomeStopped {
		t.Errorf("outcome = %+v, want stopped", out)
	}
	if out.Text != "partial" {
		t.Errorf("text = %q, want partial output kept", out.Text)
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.peak != 1 || tr.active != 0 {
		t.Errorf("peak=%d active=%d, want 1 and 0", tr.peak, tr.active)
	}
}

func TestDriverRunStopsOnCancel(t *testing.T) {
	tr := &scriptedTransport{chunks: []string{"x"}}
	ui := &recordingSurface{}
	d := NewDriver(tr, ui)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	d.Submit(validReq)
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if _, _, _, err := d.Snapshot(waitCtx); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	cancel()

	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.active != 0 {
		t.Errorf("expected connection closed on shutdown, %d still open", tr.active)
	}
}

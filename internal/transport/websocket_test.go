package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/blogforge/internal/generator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type requestFrame struct {
	AppID  string `json:"appId"`
	Prompt string `json:"prompt"`
}

// streamServer answers one request frame with chunks, then calls end.
func streamServer(t *testing.T, chunks []string, end func(*websocket.Conn), got chan<- requestFrame) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var req requestFrame
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if got != nil {
			got <- req
		}
		for _, c := range chunks {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(c)); err != nil {
				return
			}
		}
		end(conn)
	}))
}

func closeWith(code int) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		msg := websocket.FormatCloseMessage(code, "")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		// Wait for the client's echo so the frame is not lost to a reset.
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		conn.ReadMessage()
	}
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

type nopSurface struct{}

func (nopSurface) SetBusy(bool)                                {}
func (nopSurface) ClearOutput()                                {}
func (nopSurface) AppendText(string)                           {}
func (nopSurface) ShowWordCount(int)                           {}
func (nopSurface) ReportOutcome(generator.OutcomeKind, string) {}
func (nopSurface) FocusInput()                                 {}
func (nopSurface) ScrollToLatest()                             {}

func runDriver(t *testing.T, tr generator.Transport, opts ...generator.Option) *generator.Driver {
	t.Helper()
	d := generator.NewDriver(tr, nopSurface{}, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return d
}

func TestStreamRoundTrip(t *testing.T) {
	got := make(chan requestFrame, 1)
	srv := streamServer(t, []string{"# Go", "\n\nHello ", "world"}, closeWith(websocket.CloseNormalClosure), got)
	defer srv.Close()

	d := runDriver(t, New(wsURL(srv)), generator.WithAppID("unit-test"))
	req := generator.Request{Topic: "Go", Tone: "casual", Length: "100"}
	d.Submit(req)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := d.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.Kind != generator.OutcomeSuccess {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if out.Text != "# Go\n\nHello world" {
		t.Errorf("text = %q", out.Text)
	}
	if out.Words != 4 {
		t.Errorf("words = %d, want 4", out.Words)
	}

	frame := <-got
	if frame.AppID != "unit-test" {
		t.Errorf("appId = %q", frame.AppID)
	}
	if frame.Prompt != req.Prompt() {
		t.Errorf("prompt = %q", frame.Prompt)
	}
}

func TestAbnormalCloseCode(t *testing.T) {
	srv := streamServer(t, []string{"partial"}, closeWith(websocket.CloseInternalServerErr), nil)
	defer srv.Close()

	d := runDriver(t, New(wsURL(srv)))
	d.Submit(generator.Request{Topic: "x", Tone: "casual", Length: "10"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := d.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !errors.Is(out.Err, generator.ErrAbnormalClose) {
		t.Errorf("err = %v, want ErrAbnormalClose", out.Err)
	}
	if out.Text != "partial" {
		t.Errorf("text = %q, want partial output kept", out.Text)
	}
}

func TestDroppedConnectionReports1006(t *testing.T) {
	srv := streamServer(t, []string{"cut "}, func(conn *websocket.Conn) {
		conn.UnderlyingConn().Close()
	}, nil)
	defer srv.Close()

	var events []generator.Event
	sink := make(chan generator.Event, 8)
	c := New(wsURL(srv)).Open(1, func(ev generator.Event) { sink <- ev })
	defer c.Close()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-sink:
			events = append(events, ev)
			switch e := ev.(type) {
			case generator.Opened:
				if err := c.Send([]byte(`{"appId":"a","prompt":"p"}`)); err != nil {
					t.Fatalf("Send: %v", err)
				}
			case generator.Closed:
				if e.Code != websocket.CloseAbnormalClosure {
					t.Errorf("code = %d, want 1006", e.Code)
				}
				return
			case generator.Failed:
				t.Fatalf("unexpected failure: %v", e.Err)
			}
		case <-timeout:
			t.Fatalf("no close event, got %v", events)
		}
	}
}

func TestDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	d := runDriver(t, New(url, WithHandshakeTimeout(time.Second)))
	d.Submit(generator.Request{Topic: "x", Tone: "casual", Length: "10"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := d.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.Kind != generator.OutcomeError || !errors.Is(out.Err, generator.ErrConnection) {
		t.Errorf("outcome = %+v, want connection error", out)
	}
}

func TestClientCloseSendsNormalClosure(t *testing.T) {
	codes := make(chan int, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				var ce *websocket.CloseError
				if errors.As(err, &ce) {
					codes <- ce.Code
				} else {
					codes <- -1
				}
				return
			}
		}
	}))
	defer srv.Close()

	opened := make(chan struct{})
	c := New(wsURL(srv)).Open(7, func(ev generator.Event) {
		if _, ok := ev.(generator.Opened); ok {
			close(opened)
		}
	})

	select {
	case <-opened:
	case <-time.After(5 * time.Second):
		t.Fatal("connection did not open")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	select {
	case code := <-codes:
		if code != websocket.CloseNormalClosure {
			t.Errorf("server saw code %d, want 1000", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not observe close")
	}

	if err := c.Send([]byte("late")); err == nil {
		t.Error("expected Send after Close to fail")
	}
}

func TestRequestFrameIsJSON(t *testing.T) {
	got := make(chan requestFrame, 1)
	srv := streamServer(t, nil, closeWith(websocket.CloseNormalClosure), got)
	defer srv.Close()

	d := runDriver(t, New(wsURL(srv)))
	d.Submit(generator.Request{Topic: `Quotes "inside"`, Tone: "formal", Length: "250"})

	select {
	case frame := <-got:
		raw, _ := json.Marshal(frame)
		if !strings.Contains(string(raw), generator.DefaultAppID) {
			t.Errorf("frame %s missing default app id", raw)
		}
		if !strings.Contains(frame.Prompt, `"Quotes "inside""`) {
			t.Errorf("prompt = %q", frame.Prompt)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no request frame received")
	}
}

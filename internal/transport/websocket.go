// Package transport connects a generator.Session to a WebSocket generation
// service.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/blogforge/internal/generator"
)

// DefaultHandshakeTimeout bounds the opening handshake only; an
// established stream has no deadline.
const DefaultHandshakeTimeout = 15 * time.Second

// WebSocket implements generator.Transport over gorilla/websocket.
type WebSocket struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	log    zerolog.Logger
}

// Option configures a WebSocket transport.
type Option func(*WebSocket)

// WithHeader adds headers to the opening handshake.
func WithHeader(h http.Header) Option {
	return func(w *WebSocket) { w.header = h }
}

// WithHandshakeTimeout overrides DefaultHandshakeTimeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(w *WebSocket) { w.dialer.HandshakeTimeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *WebSocket) { w.log = l }
}

// New returns a transport dialing url.
func New(url string, opts ...Option) *WebSocket {
	w := &WebSocket{
		url: url,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// URL returns the endpoint this transport dials.
func (w *WebSocket) URL() string { return w.url }

// Open starts dialing in the background and returns immediately.
func (w *WebSocket) Open(id generator.ConnID, sink func(generator.Event)) generator.Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		id:     id,
		sink:   sink,
		cancel: cancel,
		log:    w.log.With().Uint64("conn", uint64(id)).Logger(),
	}
	go c.run(ctx, w)
	return c
}

type conn struct {
	id     generator.ConnID
	sink   func(generator.Event)
	cancel context.CancelFunc
	log    zerolog.Logger

	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
}

func (c *conn) run(ctx context.Context, w *WebSocket) {
	ws, _, err := w.dialer.DialContext(ctx, w.url, w.header)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.sink(generator.Failed{ID: c.id, Err: fmt.Errorf("%w: dialing %s: %v", generator.ErrConnection, w.url, err)})
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		ws.Close()
		return
	}
	c.ws = ws
	c.mu.Unlock()

	c.log.Debug().Str("url", w.url).Msg("connected")
	c.sink(generator.Opened{ID: c.id})

	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			c.finish(err)
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		c.sink(generator.Message{ID: c.id, Data: string(data)})
	}
}

// finish maps a read error to the final event of the connection.
func (c *conn) finish(err error) {
	if c.isClosed() {
		return
	}
	defer c.shutdown()

	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		c.log.Debug().Int("code", ce.Code).Str("reason", ce.Text).Msg("closed by peer")
		c.sink(generator.Closed{ID: c.id, Code: ce.Code})
		return
	}
	// The peer went away without a close frame.
	c.log.Debug().Err(err).Msg("stream interrupted")
	c.sink(generator.Closed{ID: c.id, Code: websocket.CloseAbnormalClosure})
}

func (c *conn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	if c.ws == nil {
		return errors.New("connection not established")
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close sends a normal closure frame and releases the socket. A dial still
// in progress is abandoned.
func (c *conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	ws := c.ws
	c.mu.Unlock()

	c.cancel()
	if ws == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	cerr := ws.Close()
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return werr
	}
	return cerr
}

// shutdown releases the socket after the peer ended the stream.
func (c *conn) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancel()
	if c.ws != nil {
		c.ws.Close()
	}
}

func (c *conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

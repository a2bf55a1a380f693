package generator

// ConnID identifies one connection opened by a session. IDs are never
// reused, so events from a released connection can be told apart.
type ConnID uint64

// CloseNormal is the WebSocket close code for a normal closure.
const CloseNormal = 1000

// Event is a transport notification about a connection.
type Event interface {
	ConnID() ConnID
}

// Opened reports that the connection is established.
type Opened struct{ ID ConnID }

// Message carries one inbound text chunk.
type Message struct {
	ID   ConnID
	Data string
}

// Closed reports the end of the stream with its close code.
type Closed struct {
	ID   ConnID
	Code int
}

// Failed reports a transport error. The connection is unusable afterwards.
type Failed struct {
	ID  ConnID
	Err error
}

func (e Opened) ConnID() ConnID  { return e.ID }
func (e Message) ConnID() ConnID { return e.ID }
func (e Closed) ConnID() ConnID  { return e.ID }
func (e Failed) ConnID() ConnID  { return e.ID }

// Transport opens streaming connections to the generation service.
//
// Open must return without blocking. Dialing happens in the background and
// every notification for the connection is passed to sink from another
// goroutine: Opened, then Message per frame, then exactly one Closed or
// Failed, unless the connection is closed by the caller first.
type Transport interface {
	Open(id ConnID, sink func(Event)) Conn
}

// Conn is a connection handle owned by the session.
type Conn interface {
	// Send writes one text frame.
	Send(data []byte) error
	// Close performs a client-initiated normal closure, or abandons a dial
	// still in progress. It is safe to call more than once.
	Close() error
}

package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/blogforge/internal/events"
	"github.com/ziadkadry99/blogforge/internal/llm"
)

// streamRequest is the single frame a client sends after connecting.
type streamRequest struct {
	AppID  string `json:"appId"`
	Prompt string `json:"prompt"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	log := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			log.Warn().Err(err).Msg("reading request frame")
		}
		return
	}

	var req streamRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		closeWith(conn, websocket.CloseUnsupportedData, "invalid message format")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		closeWith(conn, websocket.ClosePolicyViolation, "prompt is required")
		return
	}
	if s.appIDs != nil && !s.appIDs[req.AppID] {
		closeWith(conn, websocket.ClosePolicyViolation, "unknown app id: "+req.AppID)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client never sends again; any read result means it left or
	// acknowledged our close frame.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	streamReq := llm.PromptRequest(req.Prompt)
	streamReq.Model = s.cfg.Model

	start := time.Now()
	chunks := 0
	err = s.provider.Stream(ctx, streamReq, func(chunk string) error {
		chunks++
		return conn.WriteMessage(websocket.TextMessage, []byte(chunk))
	})

	outcome := "completed"
	switch {
	case ctx.Err() != nil:
		outcome = "cancelled"
		log.Info().Int("chunks", chunks).Msg("client closed stream")
	case err != nil:
		outcome = "failed"
		log.Error().Err(err).Int("chunks", chunks).Msg("generation failed")
		sendClose(conn, websocket.CloseInternalServerErr, "generation failed")
		waitGone(gone)
	default:
		log.Info().
			Str("app_id", req.AppID).
			Int("chunks", chunks).
			Dur("elapsed", time.Since(start)).
			Msg("stream complete")
		sendClose(conn, websocket.CloseNormalClosure, "")
		waitGone(gone)
	}
	s.record(req.AppID, outcome, chunks, time.Since(start))
}

func (s *Server) record(appID, outcome string, chunks int, elapsed time.Duration) {
	if s.events == nil {
		return
	}
	err := s.events.Track(context.Background(), events.StreamServed, map[string]any{
		"app_id":     appID,
		"outcome":    outcome,
		"chunks":     chunks,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("recording stream event")
	}
}

// closeTimeout bounds how long we wait for the client to echo a close frame.
const closeTimeout = 2 * time.Second

func sendClose(conn *websocket.Conn, code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

func waitGone(gone <-chan struct{}) {
	select {
	case <-gone:
	case <-time.After(closeTimeout):
	}
}

// closeWith sends a close frame and reads until the client's echo arrives so
// the frame is not lost when the socket is torn down. Only for use while no
// other goroutine is reading.
func closeWith(conn *websocket.Conn, code int, reason string) {
	if err := sendClose(conn, code, reason); err != nil {
		return
	}
	conn.SetReadDeadline(time.Now().Add(closeTimeout))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

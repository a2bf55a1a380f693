// Package relay serves a WebSocket generation endpoint speaking the same
// protocol as the hosted service: one JSON request frame in, raw text
// frames out, a close frame at the end.
package relay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/blogforge/internal/events"
	"github.com/ziadkadry99/blogforge/internal/llm"
)

// StreamPath is the route the generation endpoint is mounted on.
const StreamPath = "/ask_ai_streaming_v2"

// Config holds relay configuration.
type Config struct {
	Port     int
	AppIDs   []string // accepted app identifiers; empty accepts any
	AllowAll bool     // allow all CORS origins (dev mode)
	Model    string
}

// Server is the self-hosted generation service.
type Server struct {
	cfg        Config
	provider   llm.Provider
	log        zerolog.Logger
	upgrader   websocket.Upgrader
	router     chi.Router
	httpServer *http.Server
	appIDs     map[string]bool
	events     *events.Store
}

// Option configures a Server.
type Option func(*Server)

// WithEvents records one event per served stream and exposes the event
// log under /api/events.
func WithEvents(store *events.Store) Option {
	return func(s *Server) { s.events = store }
}

// New creates a relay backed by provider.
func New(cfg Config, provider llm.Provider, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if len(cfg.AppIDs) > 0 {
		s.appIDs = make(map[string]bool, len(cfg.AppIDs))
		for _, id := range cfg.AppIDs {
			s.appIDs[id] = true
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","provider":%q}`, s.provider.Name())
	})
	r.Get(StreamPath, s.handleStream)
	if s.events != nil {
		events.RegisterRoutes(r, s.events)
	}

	return r
}

// accessLog logs one line per request through zerolog.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Str("provider", s.provider.Name()).Msg("relay listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Package mcp exposes blog generation as Model Context Protocol tools.
package mcp

import (
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/blogforge/internal/config"
	"github.com/ziadkadry99/blogforge/internal/generator"
)

// Version is set via ldflags at build time.
var Version = "dev"

// DefaultTimeout bounds a single tool call.
const DefaultTimeout = 5 * time.Minute

// Defaults fill in tool arguments the caller leaves out.
type Defaults struct {
	AppID  string
	Tone   config.Tone
	Length string
}

// Server wraps an MCP server that generates blog posts over a streaming
// transport.
type Server struct {
	transport generator.Transport
	defaults  Defaults
	tracker   generator.Tracker
	log       zerolog.Logger
	timeout   time.Duration
	mcp       *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithTracker records generation events from tool calls.
func WithTracker(t generator.Tracker) Option {
	return func(s *Server) { s.tracker = t }
}

// WithLogger sets the diagnostic logger. It must not write to stdout.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(transport generator.Transport, defaults Defaults, opts ...Option) *Server {
	s := &Server{
		transport: transport,
		defaults:  defaults,
		log:       zerolog.Nop(),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"blogforge",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateBlogPostTool, s.handleGenerateBlogPost)
	s.mcp.AddTool(listTonesTool, s.handleListTones)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

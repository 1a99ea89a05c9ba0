package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/chatcast/internal/hub"
)

const (
	// defaultWriteTimeout is the maximum time allowed for a single SSE write
	// when Options.WriteTimeout is not set. Must be <= shutdown timeout.
	defaultWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds how long in-flight requests get on shutdown.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "chatcast"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// Options configures a [Server].
type Options struct {
	// Port is the TCP port to listen on. 0 picks a free port.
	Port int

	// Assets holds the client files. "index.html" at its root is served at "/".
	// May be nil, in which case only the API routes are registered.
	Assets fs.FS

	// Title is substituted into index.html. Defaults to "chatcast".
	Title string

	// KeepAlive is the idle period after which a comment line is sent on
	// open event streams. 0 disables keep-alives.
	KeepAlive time.Duration

	// WriteTimeout bounds each SSE write. Defaults to 5s.
	WriteTimeout time.Duration

	// OnPublish, if set, is called after every successful publish.
	OnPublish func(hub.Message, hub.Outcome)
}

// Server handles HTTP requests for chatcast.
//
// Server provides four endpoints:
//   - POST /message: Validates a form submission and publishes it
//   - GET /events: Server-Sent Events stream of published messages
//   - GET /api/stats: Returns hub counters as JSON
//   - GET /: Serves the client assets
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	hub    *hub.Hub
	opts   Options
	logger *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// NewServer creates a new HTTP [Server] publishing to and streaming from h.
//
// The server is not started until [Server.Start] is called.
func NewServer(h *hub.Hub, opts Options, logger *slog.Logger) *Server {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Server{
		hub:    h,
		opts:   opts,
		logger: logger,
	}
}

// Handler returns the request router. It is used by [Server.Start] and is
// exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/message", s.handleMessage)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/api/stats", s.handleStats)

	if s.opts.Assets != nil {
		mux.HandleFunc("/", s.handleAssets)
	}

	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.opts.Port, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled every event stream observes it and exits.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.addr = ln.Addr()
	s.mu.Unlock()

	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Addr returns the address the server is listening on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// handleMessage validates a form submission and publishes it to the hub.
//
// Success has no response body and does not depend on anyone listening.
// Invalid submissions are rejected with 422 and never reach the hub.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	msg, err := parseMessageForm(r)
	if err != nil {
		s.logger.Debug("message rejected", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// a publish with nobody listening is expected and not an error
	outcome := s.hub.Publish(msg)
	s.logger.Debug("message published",
		"room", msg.Room,
		"username", msg.Username,
		"outcome", outcome.String(),
	)

	if s.opts.OnPublish != nil {
		s.opts.OnPublish(msg, outcome)
	}

	w.WriteHeader(http.StatusOK)
}

// handleEvents streams published messages via Server-Sent Events.
//
// Each connection subscribes a fresh cursor, so it only sees messages
// published after it connected. Overruns are skipped silently. The loop ends
// when the hub closes, the request context is cancelled (client disconnect or
// server shutdown), or a write fails.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	logger := s.logger.With("subscriber_id", uuid.NewString())

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	// writeFrame writes one SSE frame under a deadline so a stalled client
	// cannot pin this goroutine past shutdown.
	writeFrame := func(frame string) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
				logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}
		if _, err := fmt.Fprint(w, frame); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	cursor := s.hub.Subscribe()
	defer cursor.Close()

	logger.Debug("subscriber connected", "subscribers", s.hub.Subscribers())
	defer func() {
		logger.Debug("subscriber disconnected", "lagged", cursor.Lagged())
	}()

	if err := writeFrame(": connected\n\n"); err != nil {
		return
	}

	ctx := r.Context()
	for {
		entry, err := s.receive(ctx, cursor)

		var lagErr *hub.LagError
		switch {
		case err == nil:
			data, err := json.Marshal(entry.Message)
			if err != nil {
				logger.Error("failed to encode message", "seq", entry.Seq, "error", err)
				continue
			}
			if err := writeFrame("data: " + string(data) + "\n\n"); err != nil {
				return
			}

		case errors.As(err, &lagErr):
			// missed messages are gone; resume at the oldest retained one
			logger.Debug("subscriber lagged", "skipped", lagErr.Skipped)

		case errors.Is(err, hub.ErrClosed), ctx.Err() != nil:
			// hub shutdown, server shutdown (via BaseContext) or client disconnect
			return

		case errors.Is(err, context.DeadlineExceeded):
			if err := writeFrame(": keepalive\n\n"); err != nil {
				return
			}

		default:
			logger.Warn("subscriber receive failed", "error", err)
			return
		}
	}
}

// receive waits for the next entry, giving up after the keep-alive period so
// the caller can write a keep-alive comment.
func (s *Server) receive(ctx context.Context, cursor *hub.Cursor) (hub.Entry, error) {
	if s.opts.KeepAlive <= 0 {
		return cursor.Recv(ctx)
	}
	recvCtx, cancel := context.WithTimeout(ctx, s.opts.KeepAlive)
	defer cancel()
	return cursor.Recv(recvCtx)
}

// handleStats returns the hub's counters as JSON.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(s.hub.Stats()); err != nil {
		s.logger.Error("failed to encode stats response", "error", err)
	}
}

// handleAssets serves index.html at "/" and every other path from the asset FS.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.FileServerFS(s.opts.Assets).ServeHTTP(w, r)
		return
	}

	content, err := fs.ReadFile(s.opts.Assets, "index.html")
	if err != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.opts.Title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write index response", "error", err)
	}
}

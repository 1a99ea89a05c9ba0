package chatcast

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/chatcast/internal/hub"
	"github.com/jpalmerr/chatcast/internal/server"
	"github.com/jpalmerr/chatcast/web"
)

const (
	defaultPort         = 8080
	defaultKeepAlive    = 15 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

// Chatcast is the main orchestrator for the broadcast hub and HTTP server.
//
// Chatcast owns the process-wide hub that every publisher and every event
// stream shares. It is created using [New] with functional options and
// started with [Chatcast.Start].
//
// The typical lifecycle is:
//
//	cc, err := chatcast.New(chatcast.WithPort(8080))
//	if err != nil {
//	    slog.Error("failed to create chatcast", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	cc.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancelling it closes the
// hub, which ends every open event stream.
type Chatcast struct {
	title            string
	port             int
	keepAlive        time.Duration
	writeTimeout     time.Duration
	staticDir        string
	logger           *slog.Logger
	messageCallbacks []func(Message, PublishOutcome)

	hub *hub.Hub
}

// New creates a new [Chatcast] instance with the given options.
//
// All options have sensible defaults:
//   - Port: 8080
//   - Buffer capacity: 1024 messages
//   - Keep-alive: 15 seconds
//   - Write timeout: 5 seconds
//
// The hub is created immediately, so [Chatcast.Publish] may be used before
// [Chatcast.Start]. Returns an error if any option is invalid.
func New(opts ...Option) (*Chatcast, error) {
	cfg := &ccConfig{
		port:           defaultPort,
		bufferCapacity: hub.DefaultCapacity,
		keepAlive:      defaultKeepAlive,
		writeTimeout:   defaultWriteTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	h, err := hub.New(cfg.bufferCapacity)
	if err != nil {
		return nil, err
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Chatcast{
		title:            cfg.title,
		port:             cfg.port,
		keepAlive:        cfg.keepAlive,
		writeTimeout:     cfg.writeTimeout,
		staticDir:        cfg.staticDir,
		logger:           logger,
		messageCallbacks: cfg.messageCallbacks,
		hub:              h,
	}, nil
}

// Start serves the chat endpoints until the provided context is cancelled.
//
// Start is a blocking call. On cancellation the hub is closed, every open
// event stream terminates, and the HTTP server shuts down gracefully.
// A Chatcast cannot be restarted after Start returns.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start.
func (cc *Chatcast) Start(ctx context.Context) error {
	// check if context already cancelled
	if ctx.Err() != nil {
		cc.hub.Close()
		return nil
	}

	assets, err := cc.assets()
	if err != nil {
		return err
	}

	httpServer := server.NewServer(cc.hub, server.Options{
		Port:         cc.port,
		Assets:       assets,
		Title:        cc.title,
		KeepAlive:    cc.keepAlive,
		WriteTimeout: cc.writeTimeout,
		OnPublish: func(m hub.Message, o hub.Outcome) {
			cc.runCallbacks(messageFromHub(m), outcomeFromHub(o))
		},
	}, cc.logger)

	if err := httpServer.Start(ctx); err != nil {
		cc.hub.Close()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	cc.logger.Info("chatcast started",
		"url", fmt.Sprintf("http://localhost:%d", cc.port),
		"buffer_capacity", cc.hub.Stats().Capacity,
	)

	<-ctx.Done()

	// closing the hub is the shutdown signal for every open stream
	cc.hub.Close()
	cc.logger.Info("chatcast stopped", "published", cc.hub.Stats().Published)
	return nil
}

// Publish broadcasts msg to every connected client.
//
// Publish never blocks and performs no validation; length limits apply only
// to the HTTP endpoint. Having no connected clients is not an error and is
// reported as [NoSubscribers]. Registered message callbacks run before
// Publish returns.
func (cc *Chatcast) Publish(msg Message) PublishOutcome {
	outcome := outcomeFromHub(cc.hub.Publish(msg.toHub()))
	cc.runCallbacks(msg, outcome)
	return outcome
}

// Subscribers returns the number of currently connected event streams.
func (cc *Chatcast) Subscribers() int {
	return cc.hub.Subscribers()
}

// Port returns the configured HTTP port.
func (cc *Chatcast) Port() int {
	return cc.port
}

// assets returns the client file system: the static dir if configured,
// otherwise the embedded client.
func (cc *Chatcast) assets() (fs.FS, error) {
	if cc.staticDir != "" {
		return os.DirFS(cc.staticDir), nil
	}
	sub, err := fs.Sub(web.Assets, "assets")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded assets: %w", err)
	}
	return sub, nil
}

// runCallbacks invokes every message callback in registration order.
func (cc *Chatcast) runCallbacks(msg Message, outcome PublishOutcome) {
	for _, cb := range cc.messageCallbacks {
		invokeCallbackSafe(cb, msg, outcome, cc.logger)
	}
}

// invokeCallbackSafe calls a message callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe(cb func(Message, PublishOutcome), msg Message, outcome PublishOutcome, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("message callback panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"room", msg.Room,
				"username", msg.Username,
			)
		}
	}()
	cb(msg, outcome)
}

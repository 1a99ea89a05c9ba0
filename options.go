package chatcast

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// maxBufferCapacity caps the ring size so a typo cannot allocate gigabytes.
const maxBufferCapacity = 1 << 20

// ccConfig holds mutable state during Chatcast construction.
type ccConfig struct {
	title            string
	port             int
	bufferCapacity   int
	keepAlive        time.Duration
	writeTimeout     time.Duration
	staticDir        string
	logger           *slog.Logger
	messageCallbacks []func(Message, PublishOutcome)
}

// Option is a function that configures a [Chatcast] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*ccConfig) error

// WithPort sets the HTTP port for the server.
//
// Defaults to 8080 if not specified. Port 0 picks a free port, which is
// mostly useful in tests.
//
// Returns an error if the port is outside the valid range (0-65535).
func WithPort(port int) Option {
	return func(cfg *ccConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the page title of the embedded chat client.
//
// If not specified, defaults to "chatcast".
func WithTitle(title string) Option {
	return func(cfg *ccConfig) error {
		cfg.title = title
		return nil
	}
}

// WithBufferCapacity sets how many recent messages the hub retains.
//
// A client that falls more than this many messages behind skips the
// evicted ones. Defaults to 1024.
//
// Returns an error if capacity is less than 1 or greater than 1048576.
func WithBufferCapacity(capacity int) Option {
	return func(cfg *ccConfig) error {
		if capacity < 1 || capacity > maxBufferCapacity {
			return fmt.Errorf("buffer capacity must be between 1 and %d, got %d", maxBufferCapacity, capacity)
		}
		cfg.bufferCapacity = capacity
		return nil
	}
}

// WithKeepAlive sets the idle period after which a comment line is written
// to open event streams so proxies do not drop them.
//
// Defaults to 15 seconds. Zero disables keep-alives.
//
// Returns an error if the duration is negative.
func WithKeepAlive(d time.Duration) Option {
	return func(cfg *ccConfig) error {
		if d < 0 {
			return errors.New("keep-alive interval cannot be negative")
		}
		cfg.keepAlive = d
		return nil
	}
}

// WithWriteTimeout bounds every write to an event stream. A client that
// cannot accept an event within this time is disconnected.
//
// Defaults to 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithWriteTimeout(d time.Duration) Option {
	return func(cfg *ccConfig) error {
		if d <= 0 {
			return errors.New("write timeout must be positive")
		}
		cfg.writeTimeout = d
		return nil
	}
}

// WithStaticDir serves client files from dir instead of the embedded client.
// An index.html in dir is served at "/" with the title substituted.
//
// Returns an error if dir does not exist or is not a directory.
func WithStaticDir(dir string) Option {
	return func(cfg *ccConfig) error {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("static dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("static dir %q is not a directory", dir)
		}
		cfg.staticDir = dir
		return nil
	}
}

// WithLogger sets a custom logger for chatcast.
//
// If not specified, [slog.Default] is used. Returns an error if logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *ccConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithMessageCallback registers a function to be called after every publish,
// whether the message came from the HTTP endpoint or from [Chatcast.Publish].
//
// Multiple callbacks may be registered by calling WithMessageCallback multiple
// times; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. They run synchronously on the
// publishing goroutine, so a slow callback delays the publisher's response.
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	cc, err := chatcast.New(
//	    chatcast.WithMessageCallback(func(m chatcast.Message, o chatcast.PublishOutcome) {
//	        log.Printf("%s in #%s: %s", m.Username, m.Room, m.Message)
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithMessageCallback(cb func(Message, PublishOutcome)) Option {
	return func(cfg *ccConfig) error {
		if cb == nil {
			return nil
		}
		cfg.messageCallbacks = append(cfg.messageCallbacks, cb)
		return nil
	}
}

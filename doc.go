// Package chatcast provides an embeddable, in-memory chat broadcaster that
// fans short messages out to any number of browsers over Server-Sent Events.
//
// A single process-wide hub keeps the most recent messages in a fixed-size
// ring buffer. Publishers never block: a message is accepted whether or not
// anyone is listening. Every connected client reads the ring through its own
// cursor, sees messages in the same global order, and only receives messages
// published after it connected. A client that falls too far behind silently
// skips the messages that were evicted and carries on.
//
// # Quick Start
//
// Create a broadcaster and start it with graceful shutdown:
//
//	cc, _ := chatcast.New(chatcast.WithPort(8080))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	cc.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// chatcast uses the functional options pattern for configuration:
//
//	cc, err := chatcast.New(
//	    chatcast.WithPort(9090),
//	    chatcast.WithTitle("Team Chat"),
//	    chatcast.WithBufferCapacity(4096),
//	    chatcast.WithKeepAlive(30 * time.Second),
//	)
//
// # HTTP Interface
//
// The server exposes:
//
//   - POST /message: form fields room (≤30 chars), username (≤30 chars), message
//   - GET /events: Server-Sent Events; each event's data is {"room","username","message"}
//   - GET /api/stats: JSON counters of the hub
//   - GET /: the embedded chat client
//
// Messages can also be published from Go with [Chatcast.Publish].
//
// # Architecture
//
// chatcast consists of several internal packages:
//
//   - internal/hub: Ring buffer broadcast hub with per-subscriber cursors
//   - internal/server: HTTP server with form publishing and Server-Sent Events
//   - web: Embedded chat client assets
//
// The internal packages are not part of the public API and may change
// without notice.
package chatcast

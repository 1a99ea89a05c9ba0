package hub

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the number of messages retained by a [Hub] created with
// the default settings.
const DefaultCapacity = 1024

// ErrClosed is returned by [Cursor.Recv] and [Cursor.Next] once the hub has
// been closed. It marks an ordinary end of stream, not a failure.
var ErrClosed = errors.New("hub closed")

// Message is a single chat message broadcast through the hub.
//
// Message is a value type and is never mutated after publish. Room is a
// display label only; it does not partition delivery.
type Message struct {
	// Room is the room label chosen by the sender.
	Room string `json:"room"`

	// Username is the sender's display name.
	Username string `json:"username"`

	// Message is the free-text body.
	Message string `json:"message"`
}

// Entry is a [Message] together with its position in the publish sequence.
type Entry struct {
	// Seq is the publish sequence number, starting at 0.
	Seq uint64

	// Message is the published value.
	Message Message
}

// Outcome describes what happened to a published message.
//
// Both outcomes are successes from the publisher's point of view.
type Outcome int

const (
	// Delivered means at least one live cursor existed at publish time.
	Delivered Outcome = iota + 1

	// NoSubscribers means the message was accepted with nobody listening.
	NoSubscribers
)

// String returns a lowercase name suitable for logging.
func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case NoSubscribers:
		return "no_subscribers"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// LagError reports that a cursor fell behind the oldest retained entry and
// was fast-forwarded. Skipped is the number of messages it will never see.
type LagError struct {
	Skipped uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("cursor lagged behind by %d messages", e.Skipped)
}

// Stats is a point-in-time snapshot of a [Hub].
type Stats struct {
	// Capacity is the size of the ring buffer.
	Capacity int `json:"capacity"`

	// Published is the total number of messages published so far,
	// which is also the sequence number of the next publish.
	Published uint64 `json:"published"`

	// Oldest is the sequence number of the oldest retained entry.
	Oldest uint64 `json:"oldest"`

	// Subscribers is the number of open cursors.
	Subscribers int `json:"subscribers"`

	// Closed reports whether the hub has been shut down.
	Closed bool `json:"closed"`
}

package chatcast

import "github.com/jpalmerr/chatcast/internal/hub"

// Message is a chat message broadcast to every connected client.
//
// Room is a display label only; every client receives every room's messages.
type Message struct {
	// Room is the room label chosen by the sender.
	Room string

	// Username is the sender's display name.
	Username string

	// Message is the free-text body.
	Message string
}

// PublishOutcome describes what happened to a published [Message].
//
// Both outcomes are successes. Publishing never fails because nobody is
// listening.
type PublishOutcome string

const (
	// Delivered indicates at least one client was connected at publish time.
	Delivered PublishOutcome = "delivered"

	// NoSubscribers indicates the message was accepted with no client connected.
	NoSubscribers PublishOutcome = "no_subscribers"
)

// String returns the string representation of the outcome.
// This implements the fmt.Stringer interface.
func (o PublishOutcome) String() string {
	return string(o)
}

func (m Message) toHub() hub.Message {
	return hub.Message{
		Room:     m.Room,
		Username: m.Username,
		Message:  m.Message,
	}
}

func messageFromHub(m hub.Message) Message {
	return Message{
		Room:     m.Room,
		Username: m.Username,
		Message:  m.Message,
	}
}

func outcomeFromHub(o hub.Outcome) PublishOutcome {
	if o == hub.Delivered {
		return Delivered
	}
	return NoSubscribers
}

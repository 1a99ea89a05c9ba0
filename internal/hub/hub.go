package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Hub is a multi-producer, multi-consumer broadcast queue of [Message] values.
//
// Hub keeps the most recent Capacity messages in a ring buffer indexed by
// publish sequence. Every [Cursor] reads the same global order at its own
// pace. Publishing is O(1) and never blocks; a cursor that falls more than
// Capacity messages behind is fast-forwarded rather than allowed to hold
// memory or stall publishers.
//
// Waiting readers park on a wake channel that is closed and replaced on every
// publish, so a reader can race new data against context cancellation
// without polling.
//
// All methods are safe for concurrent use.
type Hub struct {
	mu     sync.Mutex
	ring   []Message
	next   uint64 // sequence assigned to the next publish
	subs   int
	closed bool
	wake   chan struct{}
}

// New creates a [Hub] that retains up to capacity messages.
//
// Returns an error if capacity is less than 1.
func New(capacity int) (*Hub, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("hub capacity must be at least 1, got %d", capacity)
	}
	return &Hub{
		ring: make([]Message, capacity),
		wake: make(chan struct{}),
	}, nil
}

// Publish appends msg at the next sequence number and wakes all waiting
// cursors. When the ring is full the oldest entry is overwritten.
//
// Publish never blocks and never fails. Having no subscribers is reported as
// [NoSubscribers] and the message is still retained until evicted. Messages
// published after [Hub.Close] are discarded.
func (h *Hub) Publish(msg Message) Outcome {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return NoSubscribers
	}

	h.ring[h.next%uint64(len(h.ring))] = msg
	h.next++
	subs := h.subs
	h.broadcastLocked()
	h.mu.Unlock()

	if subs == 0 {
		return NoSubscribers
	}
	return Delivered
}

// Subscribe returns a new [Cursor] positioned at the current publish
// sequence. The cursor only sees messages published after this call.
//
// The caller owns the cursor and must call [Cursor.Close] when done.
func (h *Hub) Subscribe() *Cursor {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subs++
	return &Cursor{hub: h, pos: h.next}
}

// Close shuts the hub down. Every waiting cursor wakes and every subsequent
// receive returns [ErrClosed]. Close is safe to call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.broadcastLocked()
}

// Subscribers returns the number of open cursors.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subs
}

// Stats returns a snapshot of the hub's counters.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	return Stats{
		Capacity:    len(h.ring),
		Published:   h.next,
		Oldest:      h.oldestLocked(),
		Subscribers: h.subs,
		Closed:      h.closed,
	}
}

// oldestLocked returns the sequence number of the oldest retained entry.
// Must be called with h.mu held.
func (h *Hub) oldestLocked() uint64 {
	capacity := uint64(len(h.ring))
	if h.next <= capacity {
		return 0
	}
	return h.next - capacity
}

// broadcastLocked wakes every parked cursor. Must be called with h.mu held.
func (h *Hub) broadcastLocked() {
	close(h.wake)
	h.wake = make(chan struct{})
}

// Cursor is a subscriber's private read position into a [Hub].
//
// A Cursor is owned by exactly one goroutine and must not be used
// concurrently. Cancel the context passed to [Cursor.Recv] to stop a
// receive in progress, then call [Cursor.Close].
type Cursor struct {
	hub       *Hub
	pos       uint64 // next sequence to read
	lagged    uint64
	closeOnce sync.Once
	closed    bool
}

// Recv waits for the next entry in publish order.
//
// Recv returns as soon as one of the following holds:
//   - an entry at the cursor's position is available: it is returned and the
//     cursor advances by one
//   - the cursor was overrun: it is moved to the oldest retained entry and a
//     [*LagError] with the number of skipped messages is returned
//   - the hub is closed (or the cursor was closed): [ErrClosed] is returned
//   - ctx is done: ctx.Err() is returned
//
// A context that is already done takes precedence over pending entries, so
// nothing is delivered after cancellation has been requested.
func (c *Cursor) Recv(ctx context.Context) (Entry, error) {
	h := c.hub
	for {
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}

		h.mu.Lock()
		if h.closed || c.closed {
			h.mu.Unlock()
			return Entry{}, ErrClosed
		}

		if oldest := h.oldestLocked(); c.pos < oldest {
			skipped := oldest - c.pos
			c.pos = oldest
			c.lagged += skipped
			h.mu.Unlock()
			return Entry{}, &LagError{Skipped: skipped}
		}

		if c.pos < h.next {
			entry := Entry{
				Seq:     c.pos,
				Message: h.ring[c.pos%uint64(len(h.ring))],
			}
			c.pos++
			h.mu.Unlock()
			return entry, nil
		}

		wake := h.wake
		h.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return Entry{}, ctx.Err()
		}
	}
}

// Next is like [Cursor.Recv] but absorbs overruns: after a lag the cursor
// silently resumes at the oldest retained entry and keeps waiting. It returns
// only an entry, [ErrClosed], or the context's error.
//
// The number of messages lost to lag is available from [Cursor.Lagged].
func (c *Cursor) Next(ctx context.Context) (Entry, error) {
	for {
		entry, err := c.Recv(ctx)
		var lagErr *LagError
		if errors.As(err, &lagErr) {
			continue
		}
		return entry, err
	}
}

// Lagged returns the total number of messages this cursor has skipped
// because of overruns.
func (c *Cursor) Lagged() uint64 {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	return c.lagged
}

// Close releases the cursor. Subsequent receives return [ErrClosed].
// Close is safe to call more than once.
func (c *Cursor) Close() {
	c.closeOnce.Do(func() {
		c.hub.mu.Lock()
		c.closed = true
		c.hub.subs--
		c.hub.mu.Unlock()
	})
}

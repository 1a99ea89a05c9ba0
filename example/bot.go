package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jpalmerr/chatcast"
)

var announcements = []string{
	"welcome to the lobby",
	"messages older than the buffer are dropped for slow readers",
	"open a second tab to see broadcasts arrive live",
	"usernames and rooms are limited to 30 characters",
}

// RunAnnouncer publishes a bot message every interval, with some jitter,
// until ctx is cancelled.
func RunAnnouncer(ctx context.Context, cc *chatcast.Chatcast, interval time.Duration) {
	for n := 1; ; n++ {
		jitter := time.Duration(rand.Int63n(int64(interval / 2)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval + jitter):
		}

		msg := chatcast.Message{
			Room:     "lobby",
			Username: "announcer",
			Message:  fmt.Sprintf("#%d %s", n, announcements[rand.Intn(len(announcements))]),
		}
		if outcome := cc.Publish(msg); outcome == chatcast.NoSubscribers {
			slog.Debug("announcement had no listeners", "seq", n)
		}
	}
}

// Standalone load generator for testing the CLI.
//
// Usage:
//
//	go run ./cmd/chatcast serve
//
// Then in another terminal:
//
//	go run ./example/cmd/chatter -addr http://localhost:8080 -users 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
)

var phrases = []string{"hello", "anyone here?", "brb", "ship it", "lgtm", "coffee?"}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "chatcast base URL")
	users := flag.Int("users", 3, "number of simulated users")
	every := flag.Duration("every", 2*time.Second, "average delay between messages per user")
	flag.Parse()

	fmt.Printf("Chatter posting to %s/message as %d users\n", *addr, *users)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 5 * time.Second}
	endpoint := strings.TrimRight(*addr, "/") + "/message"

	var wg sync.WaitGroup
	for i := 1; i <= *users; i++ {
		wg.Add(1)
		go func(username string) {
			defer wg.Done()
			chat(ctx, client, endpoint, username, *every)
		}(fmt.Sprintf("user%d", i))
	}
	wg.Wait()
	os.Exit(0)
}

// chat posts random phrases as username until ctx is cancelled.
func chat(ctx context.Context, client *http.Client, endpoint, username string, every time.Duration) {
	for {
		delay := every/2 + time.Duration(rand.Int63n(int64(every)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		form := url.Values{
			"room":     {"lobby"},
			"username": {username},
			"message":  {phrases[rand.Intn(len(phrases))]},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			slog.Error("failed to build request", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("post failed", "username", username, "error", err)
			}
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			slog.Warn("post rejected", "username", username, "status", resp.StatusCode)
		}
	}
}

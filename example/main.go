package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/chatcast"
)

func main() {
	cc, err := chatcast.New(
		chatcast.WithPort(8080),
		chatcast.WithTitle("Chatcast Demo"),
		chatcast.WithKeepAlive(10*time.Second),
		chatcast.WithMessageCallback(func(m chatcast.Message, outcome chatcast.PublishOutcome) {
			slog.Info("message published",
				"room", m.Room,
				"username", m.Username,
				"outcome", outcome.String(),
			)
		}),
	)
	if err != nil {
		slog.Error("failed to create chatcast", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Chatcast Demo                                       ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in two browser tabs      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   A bot posts to #lobby every few seconds             ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// bot publishes in-process (see bot.go)
	go RunAnnouncer(ctx, cc, 5*time.Second)

	if err := cc.Start(ctx); err != nil {
		slog.Error("chatcast error", "error", err)
		os.Exit(1)
	}
}

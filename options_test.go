package chatcast

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	cc, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cc.Port() != 8080 {
		t.Errorf("Port() = %v, want %v", cc.Port(), 8080)
	}
	if cc.keepAlive != 15*time.Second {
		t.Errorf("keepAlive = %v, want %v", cc.keepAlive, 15*time.Second)
	}
	if cc.writeTimeout != 5*time.Second {
		t.Errorf("writeTimeout = %v, want %v", cc.writeTimeout, 5*time.Second)
	}
	if got := cc.hub.Stats().Capacity; got != 1024 {
		t.Errorf("buffer capacity = %v, want %v", got, 1024)
	}
	if cc.Subscribers() != 0 {
		t.Errorf("Subscribers() = %v, want 0", cc.Subscribers())
	}
}

func TestNew_AppliesOptions(t *testing.T) {
	cc, err := New(
		WithPort(9090),
		WithTitle("Team Chat"),
		WithBufferCapacity(16),
		WithKeepAlive(0),
		WithWriteTimeout(time.Second),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cc.Port() != 9090 {
		t.Errorf("Port() = %v, want %v", cc.Port(), 9090)
	}
	if cc.title != "Team Chat" {
		t.Errorf("title = %q, want %q", cc.title, "Team Chat")
	}
	if got := cc.hub.Stats().Capacity; got != 16 {
		t.Errorf("buffer capacity = %v, want %v", got, 16)
	}
	if cc.keepAlive != 0 {
		t.Errorf("keepAlive = %v, want 0", cc.keepAlive)
	}
	if cc.writeTimeout != time.Second {
		t.Errorf("writeTimeout = %v, want %v", cc.writeTimeout, time.Second)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr string
	}{
		{"negative port", WithPort(-1), "port must be between"},
		{"port too high", WithPort(70000), "port must be between"},
		{"zero capacity", WithBufferCapacity(0), "buffer capacity must be between"},
		{"huge capacity", WithBufferCapacity(maxBufferCapacity + 1), "buffer capacity must be between"},
		{"negative keep-alive", WithKeepAlive(-time.Second), "keep-alive interval cannot be negative"},
		{"zero write timeout", WithWriteTimeout(0), "write timeout must be positive"},
		{"nil logger", WithLogger(nil), "logger cannot be nil"},
		{"missing static dir", WithStaticDir("/nonexistent/chatcast"), "static dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			if err == nil {
				t.Fatal("New() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWithStaticDir(t *testing.T) {
	dir := t.TempDir()

	cc, err := New(WithStaticDir(dir))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cc.staticDir != dir {
		t.Errorf("staticDir = %q, want %q", cc.staticDir, dir)
	}

	file := filepath.Join(dir, "index.html")
	if err := os.WriteFile(file, []byte("hi"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := New(WithStaticDir(file)); err == nil {
		t.Error("New() expected error for a file as static dir, got nil")
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cc, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cc.logger != logger {
		t.Error("WithLogger() did not set the logger")
	}
}

func TestWithMessageCallback_NilIgnored(t *testing.T) {
	cc, err := New(WithMessageCallback(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(cc.messageCallbacks) != 0 {
		t.Errorf("len(messageCallbacks) = %d, want 0", len(cc.messageCallbacks))
	}
}

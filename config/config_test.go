package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_EmptyConfig(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.BufferCapacity != 1024 {
		t.Errorf("BufferCapacity = %d, want 1024", cfg.BufferCapacity)
	}
	if cfg.KeepAliveDuration() != 15*time.Second {
		t.Errorf("KeepAliveDuration() = %v, want 15s", cfg.KeepAliveDuration())
	}
	if cfg.WriteTimeout.Duration() != 5*time.Second {
		t.Errorf("WriteTimeout = %v, want 5s", cfg.WriteTimeout.Duration())
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level() = %v, want %v", cfg.Level(), slog.LevelInfo)
	}
	if cfg.Title != "" || cfg.StaticDir != "" {
		t.Errorf("Title/StaticDir should be empty, got %q/%q", cfg.Title, cfg.StaticDir)
	}
}

func TestDefault_MatchesEmptyParse(t *testing.T) {
	parsed, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	def := Default()

	if def.Port != parsed.Port ||
		def.BufferCapacity != parsed.BufferCapacity ||
		def.KeepAliveDuration() != parsed.KeepAliveDuration() ||
		def.WriteTimeout != parsed.WriteTimeout ||
		def.LogLevel != parsed.LogLevel {
		t.Errorf("Default() = %+v, want %+v", def, parsed)
	}
}

func TestParse_FullConfig(t *testing.T) {
	dir := t.TempDir()
	yaml := `
title: Team Chat
port: 9090
buffer_capacity: 256
keep_alive: 30s
write_timeout: 2s
static_dir: ` + dir + `
log_level: debug
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Team Chat" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Team Chat")
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.BufferCapacity != 256 {
		t.Errorf("BufferCapacity = %d, want 256", cfg.BufferCapacity)
	}
	if cfg.KeepAliveDuration() != 30*time.Second {
		t.Errorf("KeepAliveDuration() = %v, want 30s", cfg.KeepAliveDuration())
	}
	if cfg.WriteTimeout.Duration() != 2*time.Second {
		t.Errorf("WriteTimeout = %v, want 2s", cfg.WriteTimeout.Duration())
	}
	if cfg.StaticDir != dir {
		t.Errorf("StaticDir = %q, want %q", cfg.StaticDir, dir)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want %v", cfg.Level(), slog.LevelDebug)
	}
}

func TestParse_KeepAliveDisabled(t *testing.T) {
	cfg, err := Parse([]byte("keep_alive: 0s\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.KeepAliveDuration() != 0 {
		t.Errorf("KeepAliveDuration() = %v, want 0", cfg.KeepAliveDuration())
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	dir := t.TempDir()
	// t.Setenv auto-restores after test (Go 1.17+)
	t.Setenv("TEST_CHAT_TITLE", "Ops Room")
	t.Setenv("TEST_CHAT_STATIC", dir)

	yaml := `
title: ${TEST_CHAT_TITLE}
static_dir: ${TEST_CHAT_STATIC}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Ops Room" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Ops Room")
	}
	if cfg.StaticDir != dir {
		t.Errorf("StaticDir = %q, want %q", cfg.StaticDir, dir)
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
title: ${TEST_CHAT_UNSET_TITLE:-Lobby}
static_dir: ${TEST_CHAT_UNSET_STATIC:-}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Lobby" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Lobby")
	}
	if cfg.StaticDir != "" {
		t.Errorf("StaticDir = %q, want empty", cfg.StaticDir)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	_, err := Parse([]byte("title: ${TEST_CHAT_DEFINITELY_UNSET}\n"))
	if err == nil {
		t.Fatal("Parse() expected error for missing env var, got nil")
	}
	if !strings.Contains(err.Error(), "TEST_CHAT_DEFINITELY_UNSET") {
		t.Errorf("error should name the variable, got: %v", err)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"port too high", "port: 70000", "port must be between 1 and 65535"},
		{"negative port", "port: -1", "port must be between 1 and 65535"},
		{"negative capacity", "buffer_capacity: -5", "buffer_capacity must be between"},
		{"huge capacity", "buffer_capacity: 2000000", "buffer_capacity must be between"},
		{"negative keep-alive", "keep_alive: -1s", "keep_alive cannot be negative"},
		{"tiny write timeout", "write_timeout: 10ms", "write_timeout must be at least"},
		{"missing static dir", "static_dir: /nonexistent/chatcast", "static_dir"},
		{"static dir is a file", "static_dir: " + file, "is not a directory"},
		{"unknown log level", "log_level: loud", "log_level must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("port: [unclosed"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("error should mention 'failed to parse YAML', got: %v", err)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("keep_alive: soon"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error should mention 'invalid duration', got: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatcast.yaml")
	if err := os.WriteFile(path, []byte("port: 9191\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/chatcast.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_EXPAND_A", "alpha")

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "plain", false},
		{"${TEST_EXPAND_A}", "alpha", false},
		{"x-${TEST_EXPAND_A}-y", "x-alpha-y", false},
		{"${TEST_EXPAND_UNSET:-fallback}", "fallback", false},
		{"${TEST_EXPAND_UNSET:-}", "", false},
		{"${TEST_EXPAND_UNSET}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expandEnvVars(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

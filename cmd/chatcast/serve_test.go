package main

import (
	"strings"
	"testing"
)

func TestLoadServeConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", "title: Team Chat\nport: 9000\n")

	tests := []struct {
		name      string
		args      []string
		wantPort  int
		wantTitle string
		wantErr   string
	}{
		{"defaults without config", nil, 8080, "", ""},
		{"config file", []string{"-c", configPath}, 9000, "Team Chat", ""},
		{"port flag overrides config", []string{"-c", configPath, "--port", "9100"}, 9100, "Team Chat", ""},
		{"port flag without config", []string{"--port", "9200"}, 9200, "", ""},
		{"port flag out of range", []string{"--port", "0"}, 0, "", "--port must be between"},
		{"missing config file", []string{"-c", "/nonexistent/config.yaml"}, 0, "", "failed to load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			t.Cleanup(func() { resetFlags(t) })

			if err := serveCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error = %v", err)
			}

			cfg, err := loadServeConfig(serveCmd)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("loadServeConfig() error = %v, want error containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadServeConfig() error = %v", err)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", cfg.Port, tt.wantPort)
			}
			if cfg.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", cfg.Title, tt.wantTitle)
			}
		})
	}
}

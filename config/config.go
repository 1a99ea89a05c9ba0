// Package config provides YAML configuration parsing for chatcast.
//
// This package enables running chatcast as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
// Every field is optional.
//
// Example configuration:
//
//	title: Team Chat
//	port: 8080
//	buffer_capacity: 1024
//	keep_alive: 15s
//	write_timeout: 5s
//	static_dir: ${CHATCAST_STATIC:-}
//	log_level: info
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = 8080
	defaultBufferCapacity = 1024
	defaultKeepAlive      = 15 * time.Second
	defaultWriteTimeout   = 5 * time.Second

	// maxBufferCapacity matches the limit enforced by chatcast.WithBufferCapacity.
	maxBufferCapacity = 1 << 20

	// minWriteTimeout keeps a misconfiguration from disconnecting every client.
	minWriteTimeout = 100 * time.Millisecond
)

// Config is the root configuration structure for chatcast.
//
// It maps directly to the YAML configuration file structure.
// Use [Load], [Parse] or [Default] to create a Config.
type Config struct {
	// Title is the chat page title. Defaults to "chatcast" if not set.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// BufferCapacity is the number of recent messages the hub retains.
	// Defaults to 1024.
	BufferCapacity int `yaml:"buffer_capacity"`

	// KeepAlive is the idle period before a keep-alive comment is sent on
	// open event streams. Defaults to 15s; "0s" disables keep-alives.
	KeepAlive *Duration `yaml:"keep_alive"`

	// WriteTimeout bounds each write to an event stream. Defaults to 5s.
	WriteTimeout Duration `yaml:"write_timeout"`

	// StaticDir replaces the embedded client with files from this directory.
	// Supports environment variable substitution.
	StaticDir string `yaml:"static_dir"`

	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string `yaml:"log_level"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// KeepAliveDuration returns the effective keep-alive interval.
func (c *Config) KeepAliveDuration() time.Duration {
	if c.KeepAlive == nil {
		return defaultKeepAlive
	}
	return c.KeepAlive.Duration()
}

// Level returns the slog level for LogLevel. Parse has already validated it.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Title and StaticDir. Defaults are
// applied to every unset field.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.BufferCapacity == 0 {
		c.BufferCapacity = defaultBufferCapacity
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = Duration(defaultWriteTimeout)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	title, err := expandEnvVars(c.Title)
	if err != nil {
		return fmt.Errorf("title: %w", err)
	}
	c.Title = title

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.BufferCapacity < 1 || c.BufferCapacity > maxBufferCapacity {
		return fmt.Errorf("buffer_capacity must be between 1 and %d, got %d", maxBufferCapacity, c.BufferCapacity)
	}

	if c.KeepAlive != nil && c.KeepAlive.Duration() < 0 {
		return fmt.Errorf("keep_alive cannot be negative, got %s", c.KeepAlive.Duration())
	}

	if c.WriteTimeout.Duration() < minWriteTimeout {
		return fmt.Errorf("write_timeout must be at least %s, got %s", minWriteTimeout, c.WriteTimeout.Duration())
	}

	if c.StaticDir != "" {
		dir, err := expandEnvVars(c.StaticDir)
		if err != nil {
			return fmt.Errorf("static_dir: %w", err)
		}
		c.StaticDir = dir
	}
	// an env default may have expanded to empty, meaning "use the embedded client"
	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil {
			return fmt.Errorf("static_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("static_dir %q is not a directory", c.StaticDir)
		}
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// parseLevel maps a log_level value to a slog level.
func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
	}
}

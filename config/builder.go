package config

import (
	"log/slog"

	"github.com/jpalmerr/chatcast"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is passed through unchanged; callers build it from
// [Config.Level]. Static dir existence is checked again by the option.
func BuildOptions(cfg *Config, logger *slog.Logger) []chatcast.Option {
	opts := []chatcast.Option{
		chatcast.WithPort(cfg.Port),
		chatcast.WithBufferCapacity(cfg.BufferCapacity),
		chatcast.WithKeepAlive(cfg.KeepAliveDuration()),
		chatcast.WithWriteTimeout(cfg.WriteTimeout.Duration()),
	}

	if cfg.Title != "" {
		opts = append(opts, chatcast.WithTitle(cfg.Title))
	}
	if cfg.StaticDir != "" {
		opts = append(opts, chatcast.WithStaticDir(cfg.StaticDir))
	}
	if logger != nil {
		opts = append(opts, chatcast.WithLogger(logger))
	}

	return opts
}

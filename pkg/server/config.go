package server

import (
	"log/slog"
	"time"
)

// Config holds server and per-session configuration.
type Config struct {
	// Address is the listen address. Default: ":8420".
	Address string

	// PageTitle is the title of the served page. Default: "Grain".
	PageTitle string

	// ReadTimeout is the maximum time to wait for a message from the
	// client. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxEventQueue is the size of the per-session event buffer.
	// Default: 256.
	MaxEventQueue int

	// EnableMetrics exposes Prometheus metrics on /metrics.
	EnableMetrics bool

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8420",
		PageTitle:         "Grain",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
		MaxEventQueue:     256,
		EnableMetrics:     true,
		Logger:            slog.Default(),
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.PageTitle == "" {
		c.PageTitle = d.PageTitle
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.MaxEventQueue == 0 {
		c.MaxEventQueue = d.MaxEventQueue
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}

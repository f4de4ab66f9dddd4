// Package config loads backend configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Terminal  TerminalConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8700"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// TerminalConfig holds terminal supervisor configuration.
type TerminalConfig struct {
	DefaultCols int `envconfig:"TERM_DEFAULT_COLS" default:"80"`
	DefaultRows int `envconfig:"TERM_DEFAULT_ROWS" default:"24"`

	// BufferCap is the sliding output window per session, in bytes.
	BufferCap int `envconfig:"TERM_BUFFER_CAP" default:"100000"`

	// Writes larger than ChunkThreshold bytes are split into ChunkSize
	// pieces with a yield between pieces.
	ChunkThreshold int `envconfig:"TERM_CHUNK_THRESHOLD" default:"1000"`
	ChunkSize      int `envconfig:"TERM_CHUNK_SIZE" default:"100"`

	// QueueDepth is the per-session pending write queue length.
	QueueDepth int `envconfig:"TERM_QUEUE_DEPTH" default:"64"`

	// EventBuffer is the capacity of the supervisor's event channel.
	EventBuffer int `envconfig:"TERM_EVENT_BUFFER" default:"256"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8700",
			Host: "127.0.0.1",
		},
		Terminal: TerminalConfig{
			DefaultCols:    80,
			DefaultRows:    24,
			BufferCap:      100000,
			ChunkThreshold: 1000,
			ChunkSize:      100,
			QueueDepth:     64,
			EventBuffer:    256,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

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
	Port string `envconfig:"PORT" default:"7420"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// TerminalConfig holds PTY session defaults.
type TerminalConfig struct {
	// Shell is the fallback command when a spawn request names none and
	// $SHELL is unset.
	Shell string `envconfig:"TERMINAL_SHELL" default:"/bin/bash"`
	Rows  int    `envconfig:"TERMINAL_ROWS" default:"24"`
	Cols  int    `envconfig:"TERMINAL_COLS" default:"80"`
	// ReplayBytes is the per-session output window retained for subscribers
	// that attach after spawn.
	ReplayBytes int `envconfig:"TERMINAL_REPLAY_BYTES" default:"262144"`
	// EventBuffer is the per-subscriber channel depth on the event bus.
	EventBuffer int `envconfig:"TERMINAL_EVENT_BUFFER" default:"256"`
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

// LoadOrDefault loads configuration from environment or returns default.
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
			Port: "7420",
			Host: "127.0.0.1",
		},
		Terminal: TerminalConfig{
			Shell:       "/bin/bash",
			Rows:        24,
			Cols:        80,
			ReplayBytes: 262144,
			EventBuffer: 256,
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

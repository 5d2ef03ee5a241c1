package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Logging     LogConfig
	Tiers       TierConfig
	Flow        FlowConfig
	Maintenance MaintenanceConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8400"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// TierConfig holds per-tier capacity and decay policy. A capacity of -1
// means unbounded; a missing decay entry means entries never decay by
// default. Immutable for the lifetime of an allocator instance.
type TierConfig struct {
	Capacities map[string]int           `envconfig:"TIER_CAPACITIES" default:"primary:3,secondary:4,overlay:2,ephemeral:3,background:-1"`
	Decay      map[string]time.Duration `envconfig:"TIER_DECAY" default:"overlay:2m,ephemeral:30s"`
}

// FlowConfig holds flow state store configuration.
type FlowConfig struct {
	SettleDelay    time.Duration `envconfig:"FLOW_SETTLE_DELAY" default:"150ms"`
	EnergyInterval time.Duration `envconfig:"FLOW_ENERGY_INTERVAL" default:"30s"`
}

// MaintenanceConfig holds the external maintenance scheduler configuration.
type MaintenanceConfig struct {
	PruneInterval time.Duration `envconfig:"PRUNE_INTERVAL" default:"2s"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from LUMEN_-prefixed environment variables.
// Unprefixed names are accepted as a fallback.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("lumen", &cfg); err != nil {
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
			Port: "8400",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Tiers: TierConfig{
			Capacities: map[string]int{
				"primary":    3,
				"secondary":  4,
				"overlay":    2,
				"ephemeral":  3,
				"background": -1,
			},
			Decay: map[string]time.Duration{
				"overlay":   2 * time.Minute,
				"ephemeral": 30 * time.Second,
			},
		},
		Flow: FlowConfig{
			SettleDelay:    150 * time.Millisecond,
			EnergyInterval: 30 * time.Second,
		},
		Maintenance: MaintenanceConfig{
			PruneInterval: 2 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Copyright 2025 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package config provides centralized configuration management for the
// light client. It supports sensible defaults, environment variables, and a
// JSON config file, applied in that order so that a value set in the file
// overrides the environment, which overrides the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the complete configuration for the light client binary. The
// verifier's own predicates take no configuration at all — they are pure
// functions of their arguments — so everything here governs the
// orchestrator, cache, and logging around them.
type Config struct {
	// Protocol tunables
	Protocol ProtocolConfig `json:"protocol"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Sync-memo cache bounds
	Cache CacheConfig `json:"cache"`

	// Development/testing options
	Development DevelopmentConfig `json:"development"`
}

// ProtocolConfig holds the light client's protocol-level constants.
type ProtocolConfig struct {
	// NumBlockProducerSeats caps how many (approval, block producer) pairs
	// are considered during signature validation. Defaults to 50, the
	// mainnet value; only test harnesses exercising a smaller seat count
	// should override it.
	NumBlockProducerSeats int `json:"num_block_producer_seats"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `json:"level"`

	// Log format (json, text)
	Format string `json:"format"`

	// Output destination (stdout, stderr, file path)
	Output string `json:"output"`

	// Enable structured logging
	Structured bool `json:"structured"`
}

// CacheConfig bounds the sync-memo cache that remembers prior sync results
// keyed by (head hash, next block hash).
type CacheConfig struct {
	// MaxEntries is the number of memoized sync results kept before LRU
	// eviction kicks in.
	MaxEntries int `json:"max_entries"`

	// TTL is how long a memoized result remains valid.
	TTL time.Duration `json:"ttl"`
}

// DevelopmentConfig contains development/testing options
type DevelopmentConfig struct {
	// Debug is a development flag; it is loaded and merged but no component
	// in this module reads it.
	Debug bool `json:"debug"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Protocol: ProtocolConfig{
			NumBlockProducerSeats: 50,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stdout",
			Structured: false,
		},
		Cache: CacheConfig{
			MaxEntries: 1000,
			TTL:        5 * time.Minute,
		},
		Development: DevelopmentConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from environment variables and, if
// LIGHTCLIENT_CONFIG_FILE is set, a JSON config file layered on top of the
// defaults.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if configFile := os.Getenv("LIGHTCLIENT_CONFIG_FILE"); configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("LIGHTCLIENT_NUM_BLOCK_PRODUCER_SEATS"); v != "" {
		if seats, err := strconv.Atoi(v); err == nil {
			cfg.Protocol.NumBlockProducerSeats = seats
		}
	}
	if v := os.Getenv("LIGHTCLIENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LIGHTCLIENT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LIGHTCLIENT_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	if v := os.Getenv("LIGHTCLIENT_STRUCTURED_LOGGING"); v != "" {
		if structured, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Structured = structured
		}
	}
	if v := os.Getenv("LIGHTCLIENT_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("LIGHTCLIENT_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = ttl
		}
	}
	if v := os.Getenv("LIGHTCLIENT_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Development.Debug = debug
		}
	}
	return nil
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	mergeConfig(cfg, &fileConfig)
	return nil
}

// mergeConfig merges source into target, non-zero values only.
func mergeConfig(target, source *Config) {
	if source.Protocol.NumBlockProducerSeats != 0 {
		target.Protocol.NumBlockProducerSeats = source.Protocol.NumBlockProducerSeats
	}
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.Format != "" {
		target.Logging.Format = source.Logging.Format
	}
	if source.Logging.Output != "" {
		target.Logging.Output = source.Logging.Output
	}
	if source.Logging.Structured {
		target.Logging.Structured = true
	}
	if source.Development.Debug {
		target.Development.Debug = true
	}
	if source.Cache.MaxEntries != 0 {
		target.Cache.MaxEntries = source.Cache.MaxEntries
	}
	if source.Cache.TTL != 0 {
		target.Cache.TTL = source.Cache.TTL
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Protocol.NumBlockProducerSeats <= 0 {
		return fmt.Errorf("num_block_producer_seats must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must be non-negative")
	}

	return nil
}

// ToJSON returns the configuration as JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

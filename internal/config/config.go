// Package config provides configuration types and loading for the Atelier
// backend.
//
// Configuration is file-based (atelier.yaml) with environment variable
// overrides under the ATELIER_ prefix. Example: ATELIER_SERVER_HTTP_ADDR
// overrides server.http_addr.
package config

import (
	"time"
)

// Config is the top-level configuration for the Atelier backend.
type Config struct {
	// Server configures the HTTP server listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Auth configures token issuance and the policy decision cache.
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Storage configures persistence.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Telemetry configures optional tracing.
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`

	// DevMode enables development features (debug logging, in-memory stores).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the HTTP server.
// TLS is out of scope; terminate it at a reverse proxy.
type ServerConfig struct {
	// HTTPAddr is the address to listen on (e.g. "127.0.0.1:8080").
	// Defaults to "127.0.0.1:8080" if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty. DevMode=true overrides to "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
}

// AuthConfig configures the bearer token codec and policy engine.
type AuthConfig struct {
	// TokenSecret is the HMAC key signing bearer tokens. Required outside
	// dev mode; minimum 32 characters.
	TokenSecret string `yaml:"token_secret" mapstructure:"token_secret" validate:"omitempty,min=32"`

	// TokenTTL is the token lifetime (e.g. "12h", "30m").
	// Defaults to 12h if empty.
	TokenTTL string `yaml:"token_ttl" mapstructure:"token_ttl" validate:"omitempty,duration"`

	// TokenLeeway is the clock-skew tolerance for validation (e.g. "30s").
	// Defaults to zero: no leniency.
	TokenLeeway string `yaml:"token_leeway" mapstructure:"token_leeway" validate:"omitempty,duration"`

	// DecisionCacheSize bounds the policy decision LRU cache.
	// Defaults to 1024. Set to -1 to disable caching.
	DecisionCacheSize int `yaml:"decision_cache_size" mapstructure:"decision_cache_size" validate:"omitempty,min=-1"`
}

// StorageConfig configures persistence.
type StorageConfig struct {
	// Path is the SQLite database file. Empty selects the in-memory stores
	// (dev mode only).
	Path string `yaml:"path" mapstructure:"path"`

	// SeedFile is an optional YAML file with an initial admin account and
	// catalog entries, applied idempotently at startup.
	SeedFile string `yaml:"seed_file" mapstructure:"seed_file"`
}

// TelemetryConfig configures optional tracing output.
type TelemetryConfig struct {
	// TracesEnabled turns on the stdout span exporter.
	TracesEnabled bool `yaml:"traces_enabled" mapstructure:"traces_enabled"`
}

// TokenTTLDuration returns the parsed token TTL, or zero when unset.
// Validate guarantees the string parses.
func (c *AuthConfig) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// TokenLeewayDuration returns the parsed validation leeway, or zero when unset.
func (c *AuthConfig) TokenLeewayDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenLeeway)
	return d
}

// SetDefaults fills unset fields with production defaults.
// Call after loading and CLI flag overrides, before Validate.
func (c *Config) SetDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.DevMode {
		c.Server.LogLevel = "debug"
	}
	if c.Auth.TokenTTL == "" {
		c.Auth.TokenTTL = "12h"
	}
	if c.Auth.DecisionCacheSize == 0 {
		c.Auth.DecisionCacheSize = 1024
	}
}

package config

import "time"

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	StoreDriver string `mapstructure:"store_driver" yaml:"store_driver"`
	Seed        bool   `mapstructure:"seed" yaml:"seed"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	RateLimitRPS       float64  `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
	TrustedProxies     []string `mapstructure:"trusted_proxies" yaml:"trusted_proxies"`
	MetricsEnabled     bool     `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8081",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		StoreDriver:        StoreMemory,
		Seed:               true,
		CORSAllowedOrigins: []string{"*"},
		RateLimitRPS:       0, // disabled
		RateLimitBurst:     20,
		MetricsEnabled:     true,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Booleans are left alone since false cannot be told apart from unset.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.StoreDriver != "" {
		c.StoreDriver = other.StoreDriver
	}
	if len(other.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = other.CORSAllowedOrigins
	}
	if other.RateLimitRPS != 0 {
		c.RateLimitRPS = other.RateLimitRPS
	}
	if other.RateLimitBurst != 0 {
		c.RateLimitBurst = other.RateLimitBurst
	}
	if len(other.TrustedProxies) > 0 {
		c.TrustedProxies = other.TrustedProxies
	}
}

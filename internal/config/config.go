// Package config provides runtime configuration values for the service.
package config

import (
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Keys double as environment variable names.
const (
	KeyHTTPAddr          = "HTTP_ADDR"
	KeyShutdownTimeout   = "SHUTDOWN_TIMEOUT"
	KeyLogLevel          = "LOG_LEVEL"
	KeyStoreBackend      = "STORE_BACKEND"
	KeyCacheTTLMs        = "ITEM_CACHE_TTL_MS"
	KeyTracingExporter   = "TRACING_EXPORTER"
	KeyOTLPEndpoint      = "OTLP_ENDPOINT"
	KeyTracingSampleRate = "TRACING_SAMPLE_RATE"
)

// Config holds configuration knobs for the HTTP server, storage and telemetry.
type Config struct {
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	LogLevel          string
	StoreBackend      string
	CacheTTL          time.Duration
	TracingExporter   string
	OTLPEndpoint      string
	TracingSampleRate float64
}

// New returns a viper instance with defaults that reads the environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHTTPAddr, ":8000")
	v.SetDefault(KeyShutdownTimeout, 15)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyStoreBackend, "memory")
	v.SetDefault(KeyCacheTTLMs, 0)
	v.SetDefault(KeyTracingExporter, "none")
	v.SetDefault(KeyOTLPEndpoint, "localhost:4317")
	v.SetDefault(KeyTracingSampleRate, 1.0)
	v.AutomaticEnv()
	return v
}

// intOr reads key as an int, falling back to def when it does not parse.
func intOr(v *viper.Viper, key string, def int) int {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return def
	}
	return n
}

func floatOr(v *viper.Viper, key string, def float64) float64 {
	f, err := cast.ToFloat64E(v.Get(key))
	if err != nil {
		return def
	}
	return f
}

func stringOr(v *viper.Viper, key, def string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return def
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		HTTPAddr:          stringOr(v, KeyHTTPAddr, ":8000"),
		ShutdownTimeout:   time.Duration(intOr(v, KeyShutdownTimeout, 15)) * time.Second,
		LogLevel:          stringOr(v, KeyLogLevel, "info"),
		StoreBackend:      stringOr(v, KeyStoreBackend, "memory"),
		CacheTTL:          time.Duration(intOr(v, KeyCacheTTLMs, 0)) * time.Millisecond,
		TracingExporter:   stringOr(v, KeyTracingExporter, "none"),
		OTLPEndpoint:      stringOr(v, KeyOTLPEndpoint, "localhost:4317"),
		TracingSampleRate: floatOr(v, KeyTracingSampleRate, 1.0),
	}
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return FromViper(New())
}

// LoadFile layers a config file (any format viper reads) under the environment.
func LoadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	return v.ReadInConfig()
}

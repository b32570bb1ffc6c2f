// Package config loads service configuration from the environment. The
// resulting struct is constructed once in main and injected; nothing in the
// codebase reads configuration ambiently.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr     string
	RedisAddr    string
	SQLitePath   string
	CacheTTL     time.Duration
	ServiceName  string
	OTLPEndpoint string
}

func Load() (*Config, error) {
	ttlSeconds, err := intEnv("CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":4000"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/shop.db"),
		CacheTTL:     time.Duration(ttlSeconds) * time.Second,
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "ecommerce-analytics"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, raw)
	}
	return v, nil
}

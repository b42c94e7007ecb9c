package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Upload limits
	MaxUploadBytes int64

	// Session artifact cache
	SessionTTL time.Duration

	// Detection defaults, overridable per request through the form
	DefaultHeaderLines  int
	DefaultStride       int
	DefaultScanPages    int
	DefaultLinesPerPage int

	// Guard rails
	MaxPatterns int
	NameMaxLen  int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		DefaultHeaderLines:  envInt("DEFAULT_HEADER_LINES", 10),
		DefaultStride:       envInt("DEFAULT_STRIDE", 2),
		DefaultScanPages:    envInt("DEFAULT_SCAN_PAGES", 2),
		DefaultLinesPerPage: envInt("DEFAULT_LINES_PER_PAGE", 60),

		MaxPatterns: envInt("MAX_PATTERNS", 50),
		NameMaxLen:  envInt("NAME_MAX_LEN", 100),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.DefaultHeaderLines < 0 {
		cfg.DefaultHeaderLines = 10
	}
	if cfg.DefaultStride <= 0 {
		cfg.DefaultStride = 2
	}
	if cfg.DefaultScanPages <= 0 {
		cfg.DefaultScanPages = 2
	}
	if cfg.DefaultLinesPerPage <= 0 {
		cfg.DefaultLinesPerPage = 60
	}
	if cfg.MaxPatterns <= 0 {
		cfg.MaxPatterns = 50
	}
	if cfg.NameMaxLen <= 0 {
		cfg.NameMaxLen = 100
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// GitLab connection
	GitLabURL   string
	GitLabToken string

	// Webhook secret token; verification is skipped when empty.
	WebhookSecret string

	LogLevel string

	// Merge dispatch
	MergeTimeout time.Duration
	WorkerCount  int
	MaxQueueSize int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "3000"),

		GitLabURL:   envOr("GITLAB_API_URL", "https://gitlab.com"),
		GitLabToken: os.Getenv("GITLAB_API_TOKEN"),

		WebhookSecret: os.Getenv("GITLAB_WEBHOOK_SECRET"),

		LogLevel: envOr("LOG_LEVEL", "info"),

		MergeTimeout: envDuration("MERGE_TIMEOUT", 30*time.Second),
		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 64),
	}

	if cfg.MergeTimeout <= 0 {
		cfg.MergeTimeout = 30 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 64
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GitLabToken == "" {
		return fmt.Errorf("GITLAB_API_TOKEN is required")
	}
	return nil
}

// ParseLevel maps a LOG_LEVEL string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

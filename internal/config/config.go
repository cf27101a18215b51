package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	ProviderConfigPath string
	DefaultStrategy    string
	QuotaLocation      *time.Location

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// BatchMaxConcurrency caps concurrent coordinates per batch; 0 is unbounded.
	BatchMaxConcurrency int

	// Stream mode; disabled when KafkaBrokers is empty.
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// StreamEnabled reports whether Kafka stream mode is configured.
func (c *Config) StreamEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where
// unset. Variables from a .env file in the working directory are loaded first
// without overriding the real environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	if batchSize < 1 || batchSize > 1000 {
		return nil, errors.New("invalid BATCH_SIZE: must be between 1 and 1000")
	}

	maxConcurrency, err := parseInt("BATCH_MAX_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}
	if maxConcurrency < 0 {
		return nil, errors.New("invalid BATCH_MAX_CONCURRENCY: must not be negative")
	}

	tzName := envOrDefault("QUOTA_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTA_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		ProviderConfigPath:  envOrDefault("REGEOCODE_CONFIG", "re-geocode.ini"),
		DefaultStrategy:     envOrDefault("DEFAULT_STRATEGY", "nominatim"),
		QuotaLocation:       loc,
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		BatchMaxConcurrency: maxConcurrency,
		KafkaBrokers:        parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSourceTopic:    envOrDefault("KAFKA_SOURCE_TOPIC", "geocode-requests"),
		KafkaSinkTopic:      envOrDefault("KAFKA_SINK_TOPIC", "geocode-results"),
		KafkaGroupID:        envOrDefault("KAFKA_GROUP_ID", "regeocode"),
		BatchSize:           batchSize,
		BatchFlushInterval:  flushInterval,
	}

	if strings.TrimSpace(cfg.DefaultStrategy) == "" {
		return nil, errors.New("DEFAULT_STRATEGY must not be blank")
	}
	if cfg.StreamEnabled() {
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, raw)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

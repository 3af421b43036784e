package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	PipelineEnabled    bool
	PublishRejections  bool
	BatchSize          int
	BatchFlushInterval time.Duration

	DecodeCacheSize int

	// Hourly current-code announcements.
	AnnounceEnabled    bool
	AnnounceSchedule   string
	KafkaAnnounceTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory, when present, is loaded first and never
// overrides variables already set in the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env not loaded", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseDecodeCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "date-code-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "date-code-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "dtr-datecode"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		PipelineEnabled:    parseBool("PIPELINE_ENABLED", true),
		PublishRejections:  parseBool("PUBLISH_REJECTIONS", false),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		DecodeCacheSize:    cacheSize,
		AnnounceEnabled:    parseBool("ANNOUNCE_ENABLED", false),
		AnnounceSchedule:   sharedcfg.EnvOrDefault("ANNOUNCE_SCHEDULE", "0 * * * *"),
		KafkaAnnounceTopic: sharedcfg.EnvOrDefault("KAFKA_ANNOUNCE_TOPIC", "date-code-announcements"),
	}

	if cfg.PipelineEnabled || cfg.AnnounceEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
	}
	if cfg.PipelineEnabled {
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.AnnounceEnabled {
		if cfg.KafkaAnnounceTopic == "" {
			return nil, errors.New("KAFKA_ANNOUNCE_TOPIC is required when ANNOUNCE_ENABLED is true")
		}
		if _, err := cron.ParseStandard(cfg.AnnounceSchedule); err != nil {
			return nil, errors.New("invalid ANNOUNCE_SCHEDULE: " + err.Error())
		}
	}

	return cfg, nil
}

// parseDecodeCacheSize reads DECODE_CACHE_SIZE. Zero disables the cache.
func parseDecodeCacheSize() (int, error) {
	s := os.Getenv("DECODE_CACHE_SIZE")
	if s == "" {
		return 1000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid DECODE_CACHE_SIZE")
	}
	return n, nil
}

func parseBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

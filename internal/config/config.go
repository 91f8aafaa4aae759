package config

import (
	"errors"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Source CSV paths, one per dataset.
	SocialCSV   string
	SensorCSV   string
	FacilityCSV string

	// ViewCacheTTL is how long an assembled view is reused. Zero disables caching.
	ViewCacheTTL time.Duration

	// Kafka export of normalized records.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaExportTopic string
	BatchSize        int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("VIEW_CACHE_TTL", "1m"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid VIEW_CACHE_TTL")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8050"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SocialCSV:   sharedcfg.EnvOrDefault("SOCIAL_CSV", "social_media_with_temporal_score.csv"),
		SensorCSV:   sharedcfg.EnvOrDefault("SENSOR_CSV", "sensor_readings.csv"),
		FacilityCSV: sharedcfg.EnvOrDefault("FACILITY_CSV", "final_df.csv"),

		ViewCacheTTL: cacheTTL,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaExportTopic: sharedcfg.EnvOrDefault("KAFKA_EXPORT_TOPIC", "crisis-normalized-events"),
		BatchSize:        batchSize,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

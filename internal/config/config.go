package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Run modes.
const (
	ModeBatch  = "batch"
	ModeStream = "stream"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Mode string

	// Dataset locations. Manifest paths are resolved relative to DataDir.
	DataDir      string
	ManifestPath string

	OutputCSV     string
	OutputParquet string
	SQLitePath    string

	Workers int

	// AIS cleaning.
	NavigationalStatuses []int
	MinSpeedOverGround   float64
	SampleVessels        int

	MatchCacheSize int

	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	KafkaPublish     bool
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
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

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	workers, err := parsePositiveInt("WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}

	statuses, err := parseStatusCodes(sharedcfg.EnvOrDefault("NAV_STATUS_CODES", "0,3,4,8"))
	if err != nil {
		return nil, err
	}

	minSpeed, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MIN_SPEED_OVER_GROUND", "5.0"), 64)
	if err != nil || minSpeed < 0 {
		return nil, errors.New("invalid MIN_SPEED_OVER_GROUND")
	}

	sample, err := parseNonNegativeInt("SAMPLE_VESSELS", 0)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseNonNegativeInt("MATCH_CACHE_SIZE", 10000)
	if err != nil {
		return nil, err
	}

	publish, err := strconv.ParseBool(sharedcfg.EnvOrDefault("KAFKA_PUBLISH", "false"))
	if err != nil {
		return nil, errors.New("invalid KAFKA_PUBLISH")
	}

	cfg := &Config{
		Mode:                 sharedcfg.EnvOrDefault("MODE", ModeBatch),
		DataDir:              sharedcfg.EnvOrDefault("DATA_DIR", "datasets"),
		ManifestPath:         os.Getenv("MANIFEST_PATH"),
		OutputCSV:            sharedcfg.EnvOrDefault("OUTPUT_CSV", "enriched.csv"),
		OutputParquet:        os.Getenv("OUTPUT_PARQUET"),
		SQLitePath:           os.Getenv("SQLITE_PATH"),
		Workers:              workers,
		NavigationalStatuses: statuses,
		MinSpeedOverGround:   minSpeed,
		SampleVessels:        sample,
		MatchCacheSize:       cacheSize,
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:     sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "ais-dynamic"),
		KafkaSinkTopic:       sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "ais-enriched"),
		KafkaGroupID:         sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "ais-metocean-etl"),
		KafkaPublish:         publish,
		HTTPAddr:             sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:             sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:      shutdownTimeout,
		BatchSize:            batchSize,
		BatchFlushInterval:   flushInterval,
	}

	if cfg.Mode != ModeBatch && cfg.Mode != ModeStream {
		return nil, fmt.Errorf("MODE must be %q or %q, got %q", ModeBatch, ModeStream, cfg.Mode)
	}
	if cfg.OutputCSV == "" {
		return nil, errors.New("OUTPUT_CSV is required")
	}
	if cfg.UsesKafka() {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.Mode == ModeStream && cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}

	return cfg, nil
}

// UsesKafka reports whether the configured run writes to the sink topic.
func (c *Config) UsesKafka() bool {
	return c.Mode == ModeStream || c.KafkaPublish
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", key)
	}
	return n, nil
}

// parseStatusCodes parses a comma-separated list of AIS navigational status
// codes (0–15).
func parseStatusCodes(s string) ([]int, error) {
	var codes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 15 {
			return nil, fmt.Errorf("invalid NAV_STATUS_CODES entry %q", part)
		}
		codes = append(codes, n)
	}
	if len(codes) == 0 {
		return nil, errors.New("NAV_STATUS_CODES is required")
	}
	return codes, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/frost-number-service/internal/model"
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

	BatchSize          int
	BatchFlushInterval time.Duration

	// Initial model parameters; forcings from the source topic override the
	// temperature extremes per step.
	Model model.Options
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	batchSize, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	opts, err := parseModelOptions()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:     splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "climate-forcings"),
		KafkaSinkTopic:   envOrDefault("KAFKA_SINK_TOPIC", "frost-numbers"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "frost-number-service"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		Model: opts,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// parseModelOptions reads the initial model parameters. Range validation
// beyond basic parsing is left to model.Configure, which owns those rules.
func parseModelOptions() (model.Options, error) {
	opts := model.DefaultOptions()

	var err error
	if opts.TAirMin, err = parseFloat("T_AIR_MIN", opts.TAirMin); err != nil {
		return model.Options{}, err
	}
	if opts.TAirMax, err = parseFloat("T_AIR_MAX", opts.TAirMax); err != nil {
		return model.Options{}, err
	}
	if opts.TSurfaceOffset, err = parseFloat("T_SURFACE_OFFSET", opts.TSurfaceOffset); err != nil {
		return model.Options{}, err
	}
	if opts.DaysPerYear, err = parsePositiveInt("DAYS_PER_YEAR", opts.DaysPerYear); err != nil {
		return model.Options{}, err
	}
	if opts.StefanRatio, err = parseFloat("STEFAN_RATIO", opts.StefanRatio); err != nil {
		return model.Options{}, err
	}
	return opts, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

// Package config loads process configuration from environment variables, in the shape used
// throughout the retrieved corpus's own config layers: typed getters, defaults, and validation
// folded into Load.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime knobs cmd/frontend and the root main program read at process start
// (cmd/bench takes command-line flags instead). BatchSize is loaded but not passed to the engine,
// whose producer batch size is the constant engine.BatchSize. The core
// engine itself takes an explicit Config struct from its caller and never reads the environment.
type Config struct {
	Workers      int
	QueueSize    uint64
	BatchSize    int
	LogLevel     string
	FrontendPort int
	KafkaBrokers string
	KafkaTopic   string
}

// Load reads MATCHCORE_* environment variables, applies defaults, and validates values.
func Load() (*Config, error) {
	workers, err := getInt("MATCHCORE_WORKERS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCHCORE_WORKERS: %w", err)
	}

	queueSize, err := getUint64("MATCHCORE_QUEUE_SIZE", 65536)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCHCORE_QUEUE_SIZE: %w", err)
	}
	if queueSize == 0 || queueSize&(queueSize-1) != 0 {
		return nil, fmt.Errorf("invalid MATCHCORE_QUEUE_SIZE: %d is not a power of two", queueSize)
	}

	batchSize, err := getInt("MATCHCORE_BATCH_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCHCORE_BATCH_SIZE: %w", err)
	}

	logLevel := getStr("MATCHCORE_LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid MATCHCORE_LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	frontendPort, err := getInt("MATCHCORE_FRONTEND_PORT", 9090)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCHCORE_FRONTEND_PORT: %w", err)
	}

	return &Config{
		Workers:      workers,
		QueueSize:    queueSize,
		BatchSize:    batchSize,
		LogLevel:     logLevel,
		FrontendPort: frontendPort,
		KafkaBrokers: getStr("MATCHCORE_KAFKA_BROKERS", ""),
		KafkaTopic:   getStr("MATCHCORE_KAFKA_TOPIC", "matchcore.trades"),
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getUint64(key string, defaultVal uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

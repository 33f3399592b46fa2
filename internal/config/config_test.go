package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"MATCHCORE_WORKERS", "MATCHCORE_QUEUE_SIZE", "MATCHCORE_BATCH_SIZE",
		"MATCHCORE_LOG_LEVEL", "MATCHCORE_FRONTEND_PORT", "MATCHCORE_KAFKA_BROKERS",
		"MATCHCORE_KAFKA_TOPIC",
	}
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, uint64(65536), cfg.QueueSize)
	assert.Equal(t, 256, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.FrontendPort)
	assert.Equal(t, "", cfg.KafkaBrokers)
	assert.Equal(t, "matchcore.trades", cfg.KafkaTopic)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("MATCHCORE_WORKERS", "4")
	os.Setenv("MATCHCORE_QUEUE_SIZE", "1024")
	os.Setenv("MATCHCORE_LOG_LEVEL", "debug")
	os.Setenv("MATCHCORE_KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, uint64(1024), cfg.QueueSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "broker1:9092,broker2:9092", cfg.KafkaBrokers)
}

func TestLoadRejectsNonPowerOfTwoQueueSize(t *testing.T) {
	clearEnv(t)
	os.Setenv("MATCHCORE_QUEUE_SIZE", "1000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	clearEnv(t)
	os.Setenv("MATCHCORE_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonIntegerWorkers(t *testing.T) {
	clearEnv(t)
	os.Setenv("MATCHCORE_WORKERS", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

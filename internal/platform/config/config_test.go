package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"VIGIL_ADDR", "VIGIL_RECORDINGS_DIR", "VIGIL_OBSERVATION_BUFFER",
		"VIGIL_POSTGRES_URL", "VIGIL_REDIS_URL", "VIGIL_KAFKA_BROKERS",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "uploads", cfg.RecordingsDir)
	assert.Equal(t, 256, cfg.ObservationBuffer)
	assert.Empty(t, cfg.PostgresURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("VIGIL_ADDR", ":9000")
	t.Setenv("VIGIL_RECORDINGS_DIR", "/var/lib/vigil/recordings")
	t.Setenv("VIGIL_OBSERVATION_BUFFER", "1024")
	t.Setenv("VIGIL_POSTGRES_URL", "postgres://localhost/vigil")

	cfg := FromEnv()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/var/lib/vigil/recordings", cfg.RecordingsDir)
	assert.Equal(t, 1024, cfg.ObservationBuffer)
	assert.Equal(t, "postgres://localhost/vigil", cfg.PostgresURL)
}

func TestFromEnvIgnoresInvalidBuffer(t *testing.T) {
	t.Setenv("VIGIL_OBSERVATION_BUFFER", "not-a-number")
	assert.Equal(t, 256, FromEnv().ObservationBuffer)

	t.Setenv("VIGIL_OBSERVATION_BUFFER", "-5")
	assert.Equal(t, 256, FromEnv().ObservationBuffer)
}

func TestFromEnvSplitsKafkaBrokers(t *testing.T) {
	t.Setenv("VIGIL_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,kafka-3:9092")

	cfg := FromEnv()
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092", "kafka-3:9092"}, cfg.KafkaBrokers)
}

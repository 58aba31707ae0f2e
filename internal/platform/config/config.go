package config

import (
	"os"
	"strconv"
	"strings"
)

// Config captures everything the server reads from the environment. Stores are
// selected by which URLs are set: postgres wins over redis, and the in-memory
// stores are the fallback so the service runs with zero external services.
type Config struct {
	Addr              string
	PostgresURL       string
	RedisURL          string
	KafkaBrokers      []string
	RecordingsDir     string
	ObservationBuffer int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("VIGIL_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	dir := os.Getenv("VIGIL_RECORDINGS_DIR")
	if dir == "" {
		dir = "uploads"
	}

	buffer := 256
	if raw := os.Getenv("VIGIL_OBSERVATION_BUFFER"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			buffer = n
		}
	}

	var brokers []string
	if raw := os.Getenv("VIGIL_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		Addr:              addr,
		PostgresURL:       os.Getenv("VIGIL_POSTGRES_URL"),
		RedisURL:          os.Getenv("VIGIL_REDIS_URL"),
		KafkaBrokers:      brokers,
		RecordingsDir:     dir,
		ObservationBuffer: buffer,
	}
}

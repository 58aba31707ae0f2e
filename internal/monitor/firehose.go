package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"vigil/internal/event"
)

const observationTopic = "vigil.observations"

// Firehose mirrors every raw observation to Kafka for external audit
// consumers. Publishing is fire-and-forget: a broker outage must never slow
// down or fail the ingest path.
type Firehose struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewFirehose connects a Kafka producer to the given brokers.
func NewFirehose(brokers []string, logger *slog.Logger) (*Firehose, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Firehose{client: client, logger: logger}, nil
}

// Publish produces one observation keyed by session id so per-session ordering
// is preserved within a partition. Failures are logged only.
func (f *Firehose) Publish(ctx context.Context, obs event.Observation) {
	payload, err := json.Marshal(obs)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to marshal observation for firehose", "error", err)
		return
	}

	record := &kgo.Record{
		Topic: observationTopic,
		Key:   []byte(obs.SessionID),
		Value: payload,
	}
	f.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			f.logger.Error("failed to publish observation to firehose",
				"session_id", obs.SessionID,
				"error", err,
			)
		}
	})
}

// Close flushes and releases the producer.
func (f *Firehose) Close() {
	f.client.Close()
}

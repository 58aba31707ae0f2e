package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const eventsKeyPrefix = "vigil:events:"

// RedisStore keeps each session's event log as a Redis list of JSON values.
// RPUSH preserves arrival order and is append-only by construction.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed event log.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Append(ctx context.Context, obs Observation) error {
	payload, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation event: %w", err)
	}
	if err := s.client.RPush(ctx, eventsKeyPrefix+obs.SessionID, payload).Err(); err != nil {
		return fmt.Errorf("rpush observation event: %w", err)
	}
	return nil
}

func (s *RedisStore) ListBySession(ctx context.Context, sessionID string) ([]Observation, error) {
	raw, err := s.client.LRange(ctx, eventsKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange observation events: %w", err)
	}

	events := make([]Observation, 0, len(raw))
	for _, item := range raw {
		var obs Observation
		if err := json.Unmarshal([]byte(item), &obs); err != nil {
			return nil, fmt.Errorf("unmarshal observation event: %w", err)
		}
		events = append(events, obs)
	}
	return events, nil
}

func (s *RedisStore) PurgeSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, eventsKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("purge observation events: %w", err)
	}
	return nil
}

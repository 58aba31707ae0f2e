package event

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists observation events in PostgreSQL. The table is
// insert-only; there is deliberately no UPDATE or single-row DELETE.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed event log.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the events table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS observation_events (
			id          BIGSERIAL PRIMARY KEY,
			session_id  TEXT        NOT NULL,
			kind        TEXT        NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS observation_events_session_idx
			ON observation_events (session_id, occurred_at);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure events schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, obs Observation) error {
	query := `
		INSERT INTO observation_events (session_id, kind, occurred_at)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, obs.SessionID, string(obs.Kind), obs.OccurredAt); err != nil {
		return fmt.Errorf("insert observation event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string) ([]Observation, error) {
	query := `
		SELECT session_id, kind, occurred_at
		FROM observation_events
		WHERE session_id = $1
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query observation events: %w", err)
	}
	defer rows.Close()

	var events []Observation
	for rows.Next() {
		var (
			obs  Observation
			kind string
		)
		if err := rows.Scan(&obs.SessionID, &kind, &obs.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan observation event: %w", err)
		}
		obs.Kind = Kind(kind)
		events = append(events, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observation events: %w", err)
	}
	return events, nil
}

func (s *PostgresStore) PurgeSession(ctx context.Context, sessionID string) error {
	query := `DELETE FROM observation_events WHERE session_id = $1`
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("purge observation events: %w", err)
	}
	return nil
}

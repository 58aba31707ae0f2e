package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore persists session records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed session store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the sessions table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			name       TEXT        NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			ended_at   TIMESTAMPTZ
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure sessions schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, sess Session) error {
	query := `
		INSERT INTO sessions (id, name, started_at, ended_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, ended_at = EXCLUDED.ended_at
	`
	if _, err := s.db.ExecContext(ctx, query, sess.ID, sess.Name, sess.StartedAt, sess.EndedAt); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Session, error) {
	query := `SELECT id, name, started_at, ended_at FROM sessions WHERE id = $1`
	var (
		sess    Session
		endedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&sess.ID, &sess.Name, &sess.StartedAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("find session: %w", err)
	}
	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	return sess, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Session, error) {
	query := `SELECT id, name, started_at, ended_at FROM sessions ORDER BY started_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess    Session
			endedAt sql.NullTime
		)
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.StartedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if endedAt.Valid {
			t := endedAt.Time
			sess.EndedAt = &t
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

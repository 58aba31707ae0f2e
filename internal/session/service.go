package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "vigil/pkg/domain-errors"
)

// EventPurger removes a session's raw event log.
type EventPurger interface {
	PurgeSession(ctx context.Context, sessionID string) error
}

// RecordingPurger removes a session's stored recordings.
type RecordingPurger interface {
	PurgeSession(sessionID string) error
}

// Service owns the session lifecycle: start, end, list, purge. Event append
// goes through the monitor pipeline instead, so the write path keeps its
// debounce semantics.
type Service struct {
	sessions   Store
	events     EventPurger
	recordings RecordingPurger
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(sessions Store, events EventPurger, recordings RecordingPurger, logger *slog.Logger) *Service {
	return &Service{
		sessions:   sessions,
		events:     events,
		recordings: recordings,
		logger:     logger,
		now:        time.Now,
	}
}

// Start creates a session record with the current time. Restarting an id that
// already exists is rejected: session ids are externally unique.
func (s *Service) Start(ctx context.Context, id, name string) (Session, error) {
	if id == "" {
		return Session{}, domainerrors.New(domainerrors.CodeBadRequest, "sessionId is required")
	}
	if name == "" {
		return Session{}, domainerrors.New(domainerrors.CodeBadRequest, "name is required")
	}

	if _, err := s.sessions.FindByID(ctx, id); err == nil {
		return Session{}, domainerrors.New(domainerrors.CodeBadRequest, "session already started")
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	sess := Session{ID: id, Name: name, StartedAt: s.now()}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// End stamps EndedAt exactly once. Ending an already-ended session is a no-op
// returning the original record.
func (s *Service) End(ctx context.Context, id string) (Session, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Ended() {
		return sess, nil
	}

	endedAt := s.now()
	sess.EndedAt = &endedAt
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) List(ctx context.Context) ([]Session, error) {
	return s.sessions.List(ctx)
}

// Purge removes the session record, its events, and its recordings. From the
// caller's point of view the removal is atomic: once Purge returns, a report
// for the id yields the degraded "Unknown" default.
func (s *Service) Purge(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.events.PurgeSession(ctx, id); err != nil {
		return err
	}
	if s.recordings != nil {
		if err := s.recordings.PurgeSession(id); err != nil {
			// The session and events are already gone; surface the failure but
			// the report contract is intact.
			s.logger.ErrorContext(ctx, "failed to purge recordings", "session_id", id, "error", err)
			return err
		}
	}
	return nil
}

package report

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"vigil/internal/event"
	"vigil/internal/platform/metrics"
	"vigil/internal/session"
)

// bucketMillis is the deduplication window: one canonical event survives per
// (kind, 5-second bucket).
const bucketMillis = 5000

// Penalty weights of the linear integrity model. Intentionally simple and
// auditable; the score must be exactly reproducible for a given canonical
// event multiset.
const (
	penaltyFocusLost     = 5
	penaltyAbsence       = 10
	penaltyMultipleFaces = 15
	penaltyPhone         = 10
	penaltyBook          = 8
	penaltyLaptop        = 8
)

// Canonicalize reduces a raw event stream to one representative per
// (kind, bucket) pair. Input order does not matter: events are first ordered
// by occurredAt with ties broken by input position, so the earliest event in
// each bucket wins deterministically. The result is chronological. Running it
// twice over the same raw set yields the same canonical list.
func Canonicalize(events []event.Observation) []event.Observation {
	ordered := make([]event.Observation, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	type bucketKey struct {
		kind   event.Kind
		bucket int64
	}
	seen := make(map[bucketKey]bool, len(ordered))
	canonical := make([]event.Observation, 0, len(ordered))
	for _, obs := range ordered {
		key := bucketKey{kind: obs.Kind, bucket: obs.OccurredAt.UnixMilli() / bucketMillis}
		if seen[key] {
			continue
		}
		seen[key] = true
		canonical = append(canonical, obs)
	}
	return canonical
}

// Count tallies canonical events for the scored kinds. Unscored kinds still
// contribute to the canonical list and total, just not to the penalty.
func Count(canonical []event.Observation) Counts {
	var c Counts
	for _, obs := range canonical {
		switch obs.Kind {
		case event.KindFocusLost:
			c.FocusLost++
		case event.KindAbsence:
			c.Absence++
		case event.KindMultipleFaces:
			c.MultipleFaces++
		case event.KindPhoneDetected:
			c.PhoneDetected++
		case event.KindBookDetected:
			c.BookDetected++
		case event.KindLaptop:
			c.LaptopDetected++
		}
	}
	return c
}

// Score applies the linear penalty model, clamped to a minimum of 0. No upper
// clamp is needed: subtraction only decreases the starting value of 100.
func Score(c Counts) int {
	score := 100
	score -= c.FocusLost * penaltyFocusLost
	score -= c.Absence * penaltyAbsence
	score -= c.MultipleFaces * penaltyMultipleFaces
	score -= c.PhoneDetected * penaltyPhone
	score -= c.BookDetected * penaltyBook
	score -= c.LaptopDetected * penaltyLaptop
	if score < 0 {
		score = 0
	}
	return score
}

// Engine builds integrity reports. It is pure and stateless per call:
// canonicalization is recomputed from raw storage on every request, which
// keeps reports idempotent by construction. Do not replace this with an
// incremental index.
type Engine struct {
	sessions session.Store
	events   event.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewEngine(sessions session.Store, events event.Store, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{sessions: sessions, events: events, logger: logger, metrics: m}
}

// Build computes the report for a session id. A missing session record
// degrades gracefully to the "Unknown" default rather than failing the whole
// report; store errors on the event path still propagate.
func (e *Engine) Build(ctx context.Context, sessionID string) (Report, error) {
	r := Report{
		SessionID:         sessionID,
		CandidateName:     "Unknown",
		InterviewDuration: OngoingDuration,
		IntegrityScore:    100,
		Events:            []event.Observation{},
	}

	sess, err := e.sessions.FindByID(ctx, sessionID)
	switch {
	case err == nil:
		r.CandidateName = sess.Name
		if sess.Ended() {
			seconds := int64(sess.EndedAt.Sub(sess.StartedAt).Round(time.Second) / time.Second)
			r.InterviewDuration = durationString(seconds)
		}
	case errors.Is(err, session.ErrNotFound):
		// Unknown session: keep the degraded defaults.
	default:
		return Report{}, err
	}

	raw, err := e.events.ListBySession(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}

	canonical := Canonicalize(raw)
	r.Events = canonical
	r.TotalEvents = len(canonical)
	r.Counts = Count(canonical)
	r.IntegrityScore = Score(r.Counts)

	e.metrics.IncReportGenerated()
	return r, nil
}

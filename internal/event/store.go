package event

import "context"

// Store is the append-only session event log. Implementations must never
// update or delete individual events; PurgeSession is the only removal path.
// ListBySession makes no ordering promise — the report engine sorts on read.
type Store interface {
	Append(ctx context.Context, obs Observation) error
	ListBySession(ctx context.Context, sessionID string) ([]Observation, error)
	PurgeSession(ctx context.Context, sessionID string) error
}

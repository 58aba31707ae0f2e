package session

import "time"

// Session is one monitored interview interval. The ID is supplied by the
// caller and unique across the deployment; EndedAt is set exactly once.
type Session struct {
	ID        string     `json:"sessionId"`
	Name      string     `json:"name"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// Ended reports whether the session has been closed.
func (s Session) Ended() bool {
	return s.EndedAt != nil
}

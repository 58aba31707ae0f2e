package event

import "time"

// Kind names a class of observation produced by the browser-side detectors.
// Object detections use the detector's class name verbatim plus a "_detected"
// suffix, so unknown kinds are accepted and preserved; only the six declared
// below participate in scoring.
type Kind string

const (
	KindFocusLost     Kind = "focus_lost"
	KindAbsence       Kind = "absence_detected"
	KindMultipleFaces Kind = "multiple_faces"
	KindPhoneDetected Kind = "cell phone_detected"
	KindBookDetected  Kind = "book_detected"
	KindLaptop        Kind = "laptop_detected"
)

const (
	absenceCooldown = 10 * time.Second
	defaultCooldown = 5 * time.Second
)

// Cooldown is the minimum interval between two forwarded events of the same
// kind. Absence is rarer and costlier to re-report, so it gets the longer
// damping window.
func (k Kind) Cooldown() time.Duration {
	if k == KindAbsence {
		return absenceCooldown
	}
	return defaultCooldown
}

// Observation is one raw, pre-deduplication event. Immutable once written; the
// store is append-only and only whole-session purges remove events.
type Observation struct {
	SessionID  string    `json:"sessionId"`
	Kind       Kind      `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
}

package report

import (
	"fmt"

	"vigil/internal/event"
)

// OngoingDuration is the duration reported while a session has no end time.
// Callers must treat duration as a semantic string, not a number.
const OngoingDuration = "Ongoing"

// Counts holds canonical event totals for the six scored kinds.
type Counts struct {
	FocusLost      int `json:"focusLost"`
	Absence        int `json:"absence"`
	MultipleFaces  int `json:"multipleFaces"`
	PhoneDetected  int `json:"phoneDetected"`
	BookDetected   int `json:"bookDetected"`
	LaptopDetected int `json:"laptopDetected"`
}

// Report is the canonical output of a report request. Everything here is
// derived from the raw event log on every call; nothing is cached or stored.
type Report struct {
	SessionID     string `json:"sessionId"`
	CandidateName string `json:"candidateName"`
	// InterviewDuration is either "<n> seconds" or "Ongoing".
	InterviewDuration string `json:"interviewDuration"`
	TotalEvents       int    `json:"totalEvents"`
	Counts
	IntegrityScore int                 `json:"integrityScore"`
	Events         []event.Observation `json:"events"`
}

func durationString(seconds int64) string {
	return fmt.Sprintf("%d seconds", seconds)
}

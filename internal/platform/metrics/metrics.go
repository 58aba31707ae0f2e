package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	EventsAppended         *prometheus.CounterVec
	EventsThrottled        prometheus.Counter
	ReportsGenerated       prometheus.Counter
	RecordingsUploaded     prometheus.Counter
	RecordingBytesStreamed prometheus.Counter
	RangeRequests          *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewFor(prometheus.DefaultRegisterer)
}

// NewFor registers all metrics on the given registerer. Tests pass a fresh
// registry so repeated construction does not collide.
func NewFor(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_events_appended_total",
			Help: "Observation events appended to the session event log, by kind",
		}, []string{"kind"}),
		EventsThrottled: factory.NewCounter(prometheus.CounterOpts{
			Name: "vigil_events_throttled_total",
			Help: "Observation events suppressed by the per-kind cooldown",
		}),
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "vigil_reports_generated_total",
			Help: "Integrity reports computed from the raw event log",
		}),
		RecordingsUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "vigil_recordings_uploaded_total",
			Help: "Recording blobs accepted for storage",
		}),
		RecordingBytesStreamed: factory.NewCounter(prometheus.CounterOpts{
			Name: "vigil_recording_bytes_streamed_total",
			Help: "Recording bytes written to clients, full and partial responses",
		}),
		RangeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_range_requests_total",
			Help: "Recording delivery requests by outcome (full, partial, unsatisfiable)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncEventAppended(kind string) {
	m.EventsAppended.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncEventThrottled() {
	m.EventsThrottled.Inc()
}

func (m *Metrics) IncReportGenerated() {
	m.ReportsGenerated.Inc()
}

func (m *Metrics) IncRecordingUploaded() {
	m.RecordingsUploaded.Inc()
}

func (m *Metrics) AddRecordingBytesStreamed(n int64) {
	if n > 0 {
		m.RecordingBytesStreamed.Add(float64(n))
	}
}

func (m *Metrics) IncRangeRequest(outcome string) {
	m.RangeRequests.WithLabelValues(outcome).Inc()
}

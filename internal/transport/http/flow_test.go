package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/event"
	"vigil/internal/monitor"
	"vigil/internal/platform/metrics"
	"vigil/internal/recording"
	recordinghandler "vigil/internal/recording/handler"
	"vigil/internal/report"
	reporthandler "vigil/internal/report/handler"
	"vigil/internal/session"
	sessionhandler "vigil/internal/session/handler"
	"vigil/pkg/testutil"
)

// newTestServer wires the full stack against in-memory stores, mirroring the
// production composition in cmd/server.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	m := metrics.NewFor(prometheus.NewRegistry())

	sessionStore := session.NewInMemoryStore()
	eventStore := event.NewInMemoryStore()
	recordingStore, err := recording.NewStore(t.TempDir())
	require.NoError(t, err)

	pipeline := monitor.NewPipeline(eventStore, nil, log, m, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pipeline.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	sessions := session.NewService(sessionStore, eventStore, recordingStore, log)
	engine := report.NewEngine(sessionStore, eventStore, log, m)

	return NewRouter(log,
		recordinghandler.New(recordingStore, log, m),
		sessionhandler.New(sessions, pipeline, log),
		reporthandler.New(engine, log),
	)
}

func TestInterviewLifecycle(t *testing.T) {
	server := newTestServer(t)

	rr := testutil.DoRequest(server, testutil.NewJSONRequest(t, http.MethodPost, "/sessions",
		map[string]string{"sessionId": "s1", "name": "Ada Lovelace"}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	// Two bursts of focus loss, far enough apart to clear the cooldown.
	base := time.UnixMilli(1_700_000_000_000)
	for _, offset := range []time.Duration{0, time.Second, 7 * time.Second} {
		rr = testutil.DoRequest(server, testutil.NewJSONRequest(t, http.MethodPost, "/events",
			map[string]any{"sessionId": "s1", "kind": "focus_lost", "occurredAt": base.Add(offset)}))
		testutil.AssertStatus(t, rr, http.StatusAccepted)
	}

	// The pipeline consumes asynchronously; wait for both survivors to land.
	require.Eventually(t, func() bool {
		rr := testutil.DoRequest(server, testutil.NewRequest(t, http.MethodGet, "/reports/s1"))
		if rr.Code != http.StatusOK {
			return false
		}
		return testutil.UnmarshalResponse[report.Report](t, rr).TotalEvents == 2
	}, time.Second, 10*time.Millisecond)

	rr = testutil.DoRequest(server, testutil.NewJSONRequest(t, http.MethodPost, "/sessions/end",
		map[string]string{"sessionId": "s1"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(server, testutil.NewRequest(t, http.MethodGet, "/reports/s1"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	rep := testutil.UnmarshalResponse[report.Report](t, rr)
	assert.Equal(t, "Ada Lovelace", rep.CandidateName)
	assert.Equal(t, 2, rep.Counts.FocusLost)
	assert.Equal(t, 90, rep.IntegrityScore)
	assert.NotEqual(t, report.OngoingDuration, rep.InterviewDuration)

	rr = testutil.DoRequest(server, testutil.NewRequest(t, http.MethodDelete, "/sessions/s1"))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	// After the purge the report degrades to the unknown-session default.
	rr = testutil.DoRequest(server, testutil.NewRequest(t, http.MethodGet, "/reports/s1"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	rep = testutil.UnmarshalResponse[report.Report](t, rr)
	assert.Equal(t, "Unknown", rep.CandidateName)
	assert.Equal(t, 100, rep.IntegrityScore)
	assert.Equal(t, 0, rep.TotalEvents)
}

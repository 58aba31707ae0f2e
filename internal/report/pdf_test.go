package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigil/internal/event"
)

func TestRenderPDFProducesDocument(t *testing.T) {
	r := Report{
		SessionID:         "s1",
		CandidateName:     "Ada Lovelace",
		InterviewDuration: "600 seconds",
		TotalEvents:       2,
		Counts:            Counts{FocusLost: 2},
		IntegrityScore:    90,
		Events: []event.Observation{
			{SessionID: "s1", Kind: event.KindFocusLost, OccurredAt: time.UnixMilli(1_700_000_000_000)},
			{SessionID: "s1", Kind: event.KindFocusLost, OccurredAt: time.UnixMilli(1_700_000_007_000)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, r))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is not a PDF document")
	assert.Greater(t, buf.Len(), 500)
}

func TestRenderPDFEmptyReport(t *testing.T) {
	r := Report{
		SessionID:         "ghost",
		CandidateName:     "Unknown",
		InterviewDuration: OngoingDuration,
		IntegrityScore:    100,
		Events:            []event.Observation{},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

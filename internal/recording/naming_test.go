package recording

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)

	assert.Equal(t, "s1_interview_1700000000000.webm", Filename("s1", at, ".webm"))
	assert.Equal(t, "s1_interview_1700000000000.mp4", Filename("s1", at, "mp4"))
}

func TestCaptureMillis(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int64
	}{
		{"canonical name", "s1_interview_1700000000000.webm", 1_700_000_000_000},
		{"no underscore", "recording.webm", 0},
		{"unparsable suffix", "s1_interview_latest.webm", 0},
		{"negative suffix", "s1_interview_-5.webm", 0},
		{"no extension", "s1_interview_42", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CaptureMillis(tt.filename))
		})
	}
}

func TestBelongsTo(t *testing.T) {
	assert.True(t, BelongsTo("s1_interview_100.webm", "s1"))
	assert.False(t, BelongsTo("s10_interview_100.webm", "s1"))
	assert.False(t, BelongsTo("s1.webm", "s1"))
}

func TestRecognized(t *testing.T) {
	assert.True(t, Recognized("a.webm"))
	assert.True(t, Recognized("a.mp4"))
	assert.True(t, Recognized("a.WEBM"))
	assert.False(t, Recognized("a.mov"))
	assert.False(t, Recognized("notes.txt"))
	assert.False(t, Recognized("noext"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/webm", ContentType("a.webm"))
	assert.Equal(t, "video/mp4", ContentType("a.mp4"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}

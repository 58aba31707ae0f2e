package recording

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const nameInfix = "_interview_"

// recognizedExts is the extension allowlist for listing and streaming.
var recognizedExts = map[string]bool{
	".webm": true,
	".mp4":  true,
}

// Filename builds the canonical recording name:
// <sessionID>_interview_<epochMillis><ext>.
func Filename(sessionID string, capturedAt time.Time, ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s%s%d%s", sessionID, nameInfix, capturedAt.UnixMilli(), ext)
}

// CaptureMillis extracts the embedded capture timestamp from a recording name.
// A missing or unparsable suffix yields 0, which sorts last in latest-first
// selection.
func CaptureMillis(name string) int64 {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(base, "_")
	if idx < 0 {
		return 0
	}
	millis, err := strconv.ParseInt(base[idx+1:], 10, 64)
	if err != nil || millis < 0 {
		return 0
	}
	return millis
}

// BelongsTo reports whether a recording name was captured for the session.
func BelongsTo(name, sessionID string) bool {
	return strings.HasPrefix(name, sessionID+nameInfix)
}

// Recognized reports whether the file extension is a servable recording type.
func Recognized(name string) bool {
	return recognizedExts[strings.ToLower(filepath.Ext(name))]
}

// ContentType maps a recording name to the media type sent to clients.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".webm":
		return "video/webm"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// Package shared centralizes JSON response writing so every handler emits the
// same envelopes and domain errors translate to HTTP statuses in one place.
package shared

import (
	"encoding/json"
	"net/http"

	domainerrors "vigil/pkg/domain-errors"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the consistent JSON error
// envelope. Unknown errors collapse to 500 without leaking details.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	WriteJSON(w, domainerrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": domainerrors.MessageOf(err),
	})
}

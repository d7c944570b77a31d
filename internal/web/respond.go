package web

import (
	"encoding/json"
	"net/http"

	"github.com/hpungsan/imprint/internal/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its HTTP status and JSON envelope.
func writeError(w http.ResponseWriter, err error) {
	if iErr, ok := err.(*errors.ImprintError); ok {
		writeJSON(w, iErr.Status, map[string]any{"error": errorBody{
			Code:    string(iErr.Code),
			Message: iErr.Message,
			Details: iErr.Details,
		}})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": errorBody{
		Code:    string(errors.ErrInternal),
		Message: "internal error",
	}})
}

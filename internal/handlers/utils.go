package handlers

import (
	"encoding/json"
	"net/http"

	"media-catalog/internal/logging"
)

// errorResponse is the body of every JSON error response.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// writeJSON sends v as a JSON response with the given status. A nil v sends
// headers only. Encoding errors are logged since the status is already out.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError sends message as an errorResponse.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Status: status})
}

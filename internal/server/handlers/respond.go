package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nbaliev/campushub/pkg/api"
)

// sendJSON writes data as a JSON response.
func sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// sendError writes the stable error envelope. Message must never contain
// internal causes; those belong in the log.
func sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

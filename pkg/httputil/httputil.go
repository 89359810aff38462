package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse represents a plain success acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondWithError sends an error response with the given status code and message
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Message: message})
}

// RespondWithMessage sends a {"message": ...} body with the given status code
func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, MessageResponse{Message: message})
}

// RespondWithJSON sends a JSON response with the given status code and data
func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		debug.Error("Failed to encode JSON response: %v", err)
		// Headers are not written yet, so a plain text error is still possible
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		debug.Warning("Failed to write JSON response: %v", err)
	}
}

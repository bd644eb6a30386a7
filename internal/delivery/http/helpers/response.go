package helpers

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope used by most endpoints. Message, Data,
// Error, and Conflicts are omitted when empty so each endpoint keeps the
// exact shape its clients expect.
// swagger:model APIResponse
type APIResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Conflicts any    `json:"conflicts,omitempty"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode,
// and encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope with optional message and data.
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	WriteJSON(w, statusCode, APIResponse{Success: true, Message: message, Data: data})
}

// WriteError writes a failure envelope with a client-facing message and
// the underlying error string.
func WriteError(w http.ResponseWriter, statusCode int, message, errStr string) {
	WriteJSON(w, statusCode, APIResponse{Success: false, Message: message, Error: errStr})
}

// WriteValidationError writes a 422 with the collected validation
// messages.
func WriteValidationError(w http.ResponseWriter, errs []string) {
	WriteJSON(w, http.StatusUnprocessableEntity, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}{Success: false, Message: "Validation failed", Errors: errs})
}

// WriteAuthError writes the 401 shape used by the auth boundary:
// {"error": "..."}.
func WriteAuthError(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusUnauthorized, struct {
		Error string `json:"error"`
	}{Error: message})
}

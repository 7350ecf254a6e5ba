package handler

import (
	"encoding/json"
	"net/http"
)

// ClaimsKey is the context key under which the auth middleware stores the
// caller's token claims.
type contextKey string

const ClaimsKey = contextKey("claims")

// ErrorResponse is the body of every error reply. The detail wording for
// 404s and 400s is part of the API contract.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// respondWithError sends an error response with a message
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Detail: message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Sets content type header
	w.Header().Set("Content-Type", "application/json")

	// Sets the HTTP status code
	w.WriteHeader(code)

	// Encodes the response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails, logs the error and sends a plain text response
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

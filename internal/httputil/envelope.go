package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response wrapper. A response carries either Data
// or Error, never both.
type Envelope struct {
	Data  any    `json:"data,omitempty"`
	Meta  *Meta  `json:"meta,omitempty"`
	Error string `json:"error,omitempty"`
}

// Meta carries request metadata alongside successful responses.
type Meta struct {
	Quota  any    `json:"quota,omitempty"`
	Source string `json:"source,omitempty"`
}

func writeJSON(w http.ResponseWriter, requestID string, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// WriteData writes a 200 success envelope.
func WriteData(w http.ResponseWriter, requestID string, data any, meta *Meta) {
	writeJSON(w, requestID, http.StatusOK, Envelope{Data: data, Meta: meta})
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, requestID string, statusCode int, message string) {
	writeJSON(w, requestID, statusCode, Envelope{Error: message})
}

func WriteBadRequest(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusBadRequest, message)
}

func WriteInvalidJSON(w http.ResponseWriter, requestID string) {
	WriteError(w, requestID, http.StatusBadRequest, "Invalid JSON")
}

func WriteAuthError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusUnauthorized, message)
}

func WriteInternalError(w http.ResponseWriter, requestID, message string) {
	WriteError(w, requestID, http.StatusInternalServerError, message)
}

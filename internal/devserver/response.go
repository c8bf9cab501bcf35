package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/pkg/logger"
)

// errorResponse is the structured JSON error body. The message is what the
// old clients pattern-match on; the code is the hardened contract.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message, Code: code}); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message, api.CodeInvalidInput)
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message, api.CodeUnauthorized)
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message, api.CodeNotFound)
}

func internalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message, api.CodeInternalError)
}

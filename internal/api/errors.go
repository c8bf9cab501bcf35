package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error codes shared with the backend contract.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeSlotTaken     = "SLOT_TAKEN"
	CodeInternalError = "INTERNAL_ERROR"
)

// APIError is a non-2xx backend response decoded into a structured error.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
}

// errorPayload covers both payload shapes in the wild: the structured
// {error, code, details} form and the older {message} form.
type errorPayload struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Message string `json:"message"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Code = payload.Code
		switch {
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.Error != "":
			apiErr.Message = payload.Error
		default:
			apiErr.Message = resp.Status
		}
	} else {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// IsConflict reports whether err is a structured scheduling conflict. The
// substring fallback for backends that only send a natural-language message
// lives in the scheduling engine.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeConflict || apiErr.Code == CodeSlotTaken || apiErr.Status == http.StatusConflict
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeNotFound || apiErr.Status == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Code == CodeUnauthorized
}

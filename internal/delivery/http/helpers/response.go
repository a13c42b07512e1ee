package helpers

import (
	"encoding/json"
	"net/http"
)

// Machine-readable codes carried in APIError.Code.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeInternalError   = "internal_error"
)

// APIError describes why a request failed.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse wraps every JSON body the API returns. Exactly one of Data and
// Error is non-nil.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

func writeEnvelope(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONSuccess writes data inside the envelope with the given status.
func WriteJSONSuccess(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, APIResponse{Data: data})
}

// WriteJSONError writes an error envelope with the given status, code and message.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, APIResponse{Error: &APIError{Code: code, Message: message}})
}

// WriteNoContent answers 204 for deletes and withdrawals. No body is written.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

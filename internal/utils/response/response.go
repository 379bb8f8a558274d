// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses carry the resource itself (a person or a list of
// people). Error responses always carry a "message" key, plus "errors"
// for validation failures and "detail" for unexpected failures:
//
//	{ "message": "Validation failed", "errors": [{ "field": "email", "message": "..." }] }
//	{ "message": "Person 7 not found." }
//	{ "message": "Unexpected error. Please try again.", "detail": "..." }
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/people-api/internal/validation"
)

// Messages shared across the API.
const (
	MessageValidationFailed = "Validation failed"
	MessageRouteNotFound    = "Route not found."
	MessageUnexpected       = "Unexpected error. Please try again."
)

// Message is the error envelope for 404 and other single-message errors.
type Message struct {
	Message string `json:"message"`
}

// Validation is the 400 envelope listing every field violation.
type Validation struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

// Unexpected is the 500 envelope. Detail is the underlying error text,
// never a stack trace.
type Unexpected struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// WriteJSON writes data JSON-encoded with the given status code.
//
// Header() → WriteHeader() → body writes, in that order: once
// WriteHeader is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a bodyless response, typically 204.
func NoContent(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// NotFound writes a 404 with the given message.
func NotFound(w http.ResponseWriter, message string) {
	write(w, http.StatusNotFound, Message{Message: message})
}

// ValidationFailed writes a 400 carrying the full list of violations.
func ValidationFailed(w http.ResponseWriter, errs validation.Errors) {
	write(w, http.StatusBadRequest, Validation{
		Message: MessageValidationFailed,
		Errors:  errs,
	})
}

// InternalError writes a 500 with the generic message and err's text.
func InternalError(w http.ResponseWriter, err error) {
	write(w, http.StatusInternalServerError, Unexpected{
		Message: MessageUnexpected,
		Detail:  err.Error(),
	})
}

func write(w http.ResponseWriter, status int, data any) {
	if err := WriteJSON(w, status, data); err != nil {
		slog.Error("write JSON response", slog.String("error", err.Error()))
	}
}

// Package apierr defines the error codes shared by the HTTP API, its
// client and the MCP tools.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class on the wire.
type Code string

const (
	ValidationFailed Code = "VALIDATION_FAILED"
	InvalidInput     Code = "INVALID_INPUT"
	InvalidAction    Code = "INVALID_ACTION"
	NoFormData       Code = "NO_FORM_DATA"
	IncompleteData   Code = "INCOMPLETE_DATA"
	GenerationError  Code = "GENERATION_ERROR"
	NetworkError     Code = "NETWORK_ERROR"
	RateLimited      Code = "RATE_LIMITED"
	NoWorkout        Code = "NO_WORKOUT"
)

// Status returns the HTTP status for code. NETWORK_ERROR never crosses
// the wire and maps to 0.
func (c Code) Status() int {
	switch c {
	case ValidationFailed, IncompleteData:
		return http.StatusUnprocessableEntity
	case InvalidInput, InvalidAction, NoFormData:
		return http.StatusBadRequest
	case GenerationError:
		return http.StatusInternalServerError
	case RateLimited:
		return http.StatusTooManyRequests
	case NoWorkout:
		return http.StatusNotFound
	case NetworkError:
		return 0
	}
	return http.StatusInternalServerError
}

// Retryable reports whether repeating the same request may succeed.
func (c Code) Retryable() bool {
	switch c {
	case NetworkError, GenerationError, RateLimited:
		return true
	}
	return false
}

// Error is a coded failure with optional per-field messages.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Status  int               `json:"-"`
	Err     error             `json:"-"`
}

// New creates an error with the default status for code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Status: code.Status()}
}

// WithFields creates an error carrying field-level messages.
func WithFields(code Code, message string, fields map[string]string) *Error {
	e := New(code, message)
	e.Fields = fields
	return e
}

// Wrap creates an error that keeps err as its cause.
func Wrap(code Code, message string, err error) *Error {
	e := New(code, message)
	e.Err = err
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code, so errors.Is(err, apierr.New(code, ""))
// works across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// UserMessage is the text shown to a person when a request fails with code.
func UserMessage(code Code) string {
	switch code {
	case ValidationFailed:
		return "Please fix the highlighted fields and try again."
	case InvalidInput:
		return "The request could not be read. Please try again."
	case InvalidAction:
		return "That action is not supported."
	case NoFormData:
		return "Please complete the form before generating a workout."
	case IncompleteData:
		return "Some required information is missing. Please review the earlier steps."
	case GenerationError:
		return "We couldn't generate your workout. Please try again."
	case NetworkError:
		return "Connection problem. Please check your connection and try again."
	case RateLimited:
		return "Too many requests. Please wait a moment and try again."
	case NoWorkout:
		return "No workout has been generated yet."
	}
	return "Something went wrong. Please try again."
}

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *Error          `json:"error,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

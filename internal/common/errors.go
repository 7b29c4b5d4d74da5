package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Content synchronization errors
var (
	// ErrTransport no response reached the caller (network, DNS, timeout)
	ErrTransport = errors.New("transport error")
	// ErrUploadFailed media host answered with a non-success status
	ErrUploadFailed = errors.New("upload failed")
	// ErrWriteFailed store rejected or could not complete a create
	ErrWriteFailed = errors.New("write failed")
	// ErrDeleteFailed store rejected or could not complete a delete
	ErrDeleteFailed = errors.New("delete failed")
	// ErrSubscription snapshot query failed mid-subscription (never returned to
	// list callers, reported as a degraded snapshot)
	ErrSubscription = errors.New("subscription error")
)

// General errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrClosed       = errors.New("store client closed")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UploadError carries the media provider's rejection details
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload failed: status %d", e.Status)
	}
	return "upload failed: " + e.Message
}

// Unwrap lets errors.Is(err, ErrUploadFailed) match
func (e *UploadError) Unwrap() error {
	return ErrUploadFailed
}

// NewUploadError builds an UploadError, falling back to the HTTP status text
func NewUploadError(status int, providerMessage string) *UploadError {
	msg := providerMessage
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &UploadError{Status: status, Message: msg}
}

// Invalid wraps a validation failure so errors.Is(err, ErrInvalidInput) matches
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// HTTPStatus maps the error taxonomy onto response codes
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrTransport):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrWriteFailed), errors.Is(err, ErrDeleteFailed), errors.Is(err, ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("not found")

// AppError is a request-level failure surfaced to the caller with an HTTP-like status.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeBuildingNotFound  = "BUILDING_NOT_FOUND"
	ErrCodeArchitectNotFound = "ARCHITECT_NOT_FOUND"
	ErrCodePhotoNotFound     = "PHOTO_NOT_FOUND"
	ErrCodeUpstream          = "UPSTREAM_QUERY_FAILED"
)

// NewNotFoundError builds a 404 AppError for the given entity code.
func NewNotFoundError(code, key string) *AppError {
	return &AppError{
		Status:  http.StatusNotFound,
		Code:    code,
		Message: fmt.Sprintf("no entity found for %q", key),
		Err:     ErrNotFound,
	}
}

// NewUpstreamError builds a 500 AppError wrapping a storage failure.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCodeUpstream,
		Message: message,
		Err:     err,
	}
}

// StatusOf returns the status carried by err, or 500 when err is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// APIError is an error safe to return to API clients.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "No authorization token provided"}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}
}

func NewErrInvalidRefreshToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "Invalid or expired refresh token"}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf("User with email %s already exists", email)}
}

func NewErrJobNotFound() *APIError {
	return &APIError{Status: http.StatusNotFound, Message: "Job not found"}
}

func NewErrAttachmentNotFound() *APIError {
	return &APIError{Status: http.StatusNotFound, Message: "Attachment not found"}
}

func NewErrAttachmentTooLarge(limit int64) *APIError {
	return &APIError{Status: http.StatusRequestEntityTooLarge, Message: fmt.Sprintf("Attachment exceeds %d bytes", limit)}
}

// NewErrValidation joins field problems into a single 400 error.
func NewErrValidation(problems ...string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: strings.Join(problems, "; ")}
}

// Package common defines shared constants and sentinel errors used across
// the NotesVault server and client. Callers should use errors.Is to match
// these values; lower layers wrap them with fmt.Errorf("...: %w", err).
package common

import (
	"errors"
	"strings"
)

var (
	// Request-level errors. Each maps to exactly one HTTP status at the edge.
	ErrorBadRequest   = errors.New("bad request")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorNotFound     = errors.New("not found")
	ErrorConflict     = errors.New("already exists")
	ErrorInternal     = errors.New("internal error")

	// Token verification errors.
	ErrTokenMalformed        = errors.New("malformed token")
	ErrTokenInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired          = errors.New("token expired")
)

// ValidationError lists what is wrong with client input. It matches
// ErrorBadRequest under errors.Is.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrorBadRequest.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrorBadRequest }

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/notesvault/notesvault/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx answer from the server. It unwraps to the matching
// common sentinel, so callers test it with errors.Is.
type Error struct {
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return fmt.Sprintf("%d %s", e.Status, msg)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return common.ErrorBadRequest
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorConflict
	default:
		return common.ErrorInternal
	}
}

// SessionRejected reports whether err means the stored token is no longer
// accepted and the user has to sign in again.
func SessionRejected(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrorForbidden)
}

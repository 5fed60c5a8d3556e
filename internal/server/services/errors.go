package services

import (
	"errors"
	"fmt"

	"github.com/notesvault/notesvault/internal/common"
)

// internalError marks an unexpected collaborator failure. The cause stays in
// the chain for logging; callers only see common.ErrorInternal.
func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, err)
}

// storeError passes through the store outcomes a caller may act on and turns
// everything else, timeouts included, into an internal error.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorConflict):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return internalError(op, err)
	}
}

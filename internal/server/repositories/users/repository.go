// Package users is the credential store: persisted user records looked up by
// username or id.
package users

import (
	"context"

	"github.com/notesvault/notesvault/internal/models"
)

// Repository is implemented by every credential store backend.
//
// Create fails with common.ErrorConflict when the username is taken; the
// Find methods fail with common.ErrorNotFound when no record matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Package notes is the note store. Every read and write is scoped by the
// owner's user id; a note owned by someone else is reported exactly like a
// note that does not exist (common.ErrorNotFound).
package notes

import (
	"context"

	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
)

type Repository interface {
	// Find returns the owner's notes matching pred, most recently updated
	// first. A nil pred matches everything.
	Find(ctx context.Context, ownerID string, pred noteset.Predicate) ([]models.Note, error)
	FindOne(ctx context.Context, id, ownerID string) (*models.Note, error)
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Replace(ctx context.Context, id, ownerID string, in models.NoteInput) (*models.Note, error)
	Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id, ownerID string) error
}

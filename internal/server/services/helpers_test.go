package services

import (
	"context"
	"errors"
	"time"

	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
	"github.com/notesvault/notesvault/internal/server/auth"
	"github.com/notesvault/notesvault/internal/server/repositories/notes"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
	"github.com/notesvault/notesvault/internal/server/repositories/users"
)

var errStoreDown = errors.New("store down")

func newTokens() *auth.TokenService {
	return auth.NewTokenService([]byte("test-secret"), time.Hour, nil)
}

// brokenUsers fails every call with err.
type brokenUsers struct{ err error }

func (b brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, b.err }
func (b brokenUsers) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, b.err
}
func (b brokenUsers) FindByID(context.Context, string) (*models.User, error) { return nil, b.err }

// brokenNotes fails every call with err.
type brokenNotes struct{ err error }

func (b brokenNotes) Find(context.Context, string, noteset.Predicate) ([]models.Note, error) {
	return nil, b.err
}
func (b brokenNotes) FindOne(context.Context, string, string) (*models.Note, error) {
	return nil, b.err
}
func (b brokenNotes) Create(context.Context, *models.Note) (*models.Note, error) { return nil, b.err }
func (b brokenNotes) Replace(context.Context, string, string, models.NoteInput) (*models.Note, error) {
	return nil, b.err
}
func (b brokenNotes) Update(context.Context, string, string, models.NotePatch) (*models.Note, error) {
	return nil, b.err
}
func (b brokenNotes) Delete(context.Context, string, string) error { return b.err }

// brokenManager serves the broken repositories.
type brokenManager struct {
	repomanager.RepositoryManager
	err error
}

func (m brokenManager) Users() users.Repository { return brokenUsers{err: m.err} }
func (m brokenManager) Notes() notes.Repository { return brokenNotes{err: m.err} }

func timeUnix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

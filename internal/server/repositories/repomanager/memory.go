package repomanager

import (
	"context"

	"github.com/notesvault/notesvault/internal/server/repositories/notes"
	"github.com/notesvault/notesvault/internal/server/repositories/users"
)

type MemoryRepositoryManager struct {
	users *users.MemoryRepository
	notes *notes.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		notes: notes.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Notes() notes.Repository { return m.notes }

// RunMigrations is a no-op: there is no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryRepositoryManager) Close() error { return nil }

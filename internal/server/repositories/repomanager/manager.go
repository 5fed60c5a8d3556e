// Package repomanager owns the store connection and vends the credential and
// note repositories bound to it.
package repomanager

import (
	"context"
	"strings"

	"github.com/notesvault/notesvault/internal/server/repositories/notes"
	"github.com/notesvault/notesvault/internal/server/repositories/users"
)

// MemoryDSN selects the in-process backend.
const MemoryDSN = "memory://"

type RepositoryManager interface {
	Users() users.Repository
	Notes() notes.Repository
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the backend named by dsn: MemoryDSN gives a fresh in-memory
// store, anything else is handed to the pgx driver.
func Open(dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, MemoryDSN) {
		return NewMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(dsn)
}

// Package session keeps the signed-in user's token on disk between client
// runs, in a sqlite file managed with goose migrations.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notesvault/notesvault/internal/client/migrations"
	"github.com/notesvault/notesvault/internal/dbx"
	"github.com/notesvault/notesvault/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyToken    = "token"
	keyUsername = "username"
)

var (
	sqlOpen        = sql.Open
	gooseUpContext = goose.UpContext
)

// Session is what the client remembers about a login.
type Session struct {
	Username string
	Token    string
}

// Store persists at most one Session.
type Store struct {
	db   *sql.DB
	repo Repository
}

// RunMigrations brings the client schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	// migration progress would end up in the REPL
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// Open opens (creating if needed) the session file at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sqlOpen("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY between our own statements
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}

	return &Store{db: db, repo: NewSQLiteRepository(db)}, nil
}

// Save replaces the stored session. Both keys are written in one transaction.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUsername, []byte(sess.Username))
	})
}

// Load returns the stored session and whether one exists.
func (s *Store) Load(ctx context.Context) (Session, bool, error) {
	kv, err := s.repo.List(ctx)
	if err != nil {
		return Session{}, false, err
	}

	token, ok := kv[keyToken]
	if !ok || len(token) == 0 {
		return Session{}, false, nil
	}
	return Session{Username: string(kv[keyUsername]), Token: string(token)}, true, nil
}

// Clear forgets the stored session.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

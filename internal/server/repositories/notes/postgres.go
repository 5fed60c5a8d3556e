package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/dbx"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
)

const noteColumns = `id, user_id, title, content, tags, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(s rowScanner) (*models.Note, error) {
	var (
		n    models.Note
		tags []byte
	)
	if err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &tags, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &n.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &n, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *PostgresRepository) Find(ctx context.Context, ownerID string, pred noteset.Predicate) ([]models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if pred == nil {
		return out, nil
	}
	return noteset.FilterNotes(out, pred), nil
}

func (r *PostgresRepository) FindOne(ctx context.Context, id, ownerID string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		 WHERE id = $1 AND user_id = $2
		 `
	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// Create inserts note, assigning its id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`INSERT INTO notes (id, user_id, title, content, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $6)
		 `

	n := *note
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt
	if n.Tags == nil {
		n.Tags = []string{}
	}

	tags, err := encodeTags(n.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Content, tags, n.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &n, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, id, ownerID string, in models.NoteInput) (*models.Note, error) {
	query :=
		`UPDATE notes SET title = $3, content = $4, tags = $5::jsonb, updated_at = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + noteColumns

	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID, in.Title, in.Content, tags, time.Now().UTC()))
}

// Update writes only the fields present in patch; absent ones keep their
// stored value through COALESCE.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	query :=
		`UPDATE notes SET
		   title = COALESCE($3, title),
		   content = COALESCE($4, content),
		   tags = COALESCE($5::jsonb, tags),
		   updated_at = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + noteColumns

	var title, content, tags any
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Content != nil {
		content = *patch.Content
	}
	if patch.Tags != nil {
		encoded, err := encodeTags(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		tags = encoded
	}

	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID, title, content, tags, time.Now().UTC()))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query :=
		`DELETE FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) one(row *sql.Row) (*models.Note, error) {
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

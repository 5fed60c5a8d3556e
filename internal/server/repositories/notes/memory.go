package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
)

// MemoryRepository keeps notes in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	notes map[string]models.Note
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		notes: make(map[string]models.Note),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func clone(n models.Note) *models.Note {
	n.Tags = append([]string{}, n.Tags...)
	return &n
}

func (r *MemoryRepository) Find(ctx context.Context, ownerID string, pred noteset.Predicate) ([]models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := []models.Note{}
	for _, n := range r.notes {
		if n.UserID == ownerID {
			out = append(out, *clone(n))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if pred == nil {
		return out, nil
	}
	return noteset.FilterNotes(out, pred), nil
}

func (r *MemoryRepository) FindOne(ctx context.Context, id, ownerID string) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	return clone(n), nil
}

func (r *MemoryRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := *clone(*note)
	n.ID = uuid.NewString()
	n.CreatedAt = r.now()
	n.UpdatedAt = n.CreatedAt

	r.mu.Lock()
	r.notes[n.ID] = n
	r.mu.Unlock()

	return clone(n), nil
}

func (r *MemoryRepository) Replace(ctx context.Context, id, ownerID string, in models.NoteInput) (*models.Note, error) {
	return r.modify(ctx, id, ownerID, func(n *models.Note) {
		n.Title = in.Title
		n.Content = in.Content
		n.Tags = append([]string{}, in.Tags...)
	})
}

func (r *MemoryRepository) Update(ctx context.Context, id, ownerID string, patch models.NotePatch) (*models.Note, error) {
	return r.modify(ctx, id, ownerID, func(n *models.Note) {
		*n = patch.Apply(*n)
	})
}

func (r *MemoryRepository) modify(ctx context.Context, id, ownerID string, fn func(*models.Note)) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrorNotFound
	}

	fn(&n)
	n.UpdatedAt = r.now()
	r.notes[id] = n

	return clone(n), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.notes, id)
	return nil
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
)

// NoteService runs note operations on behalf of an already resolved owner.
// The owner id always comes from the authenticated user, never from input.
type NoteService struct {
	repomanager repomanager.RepositoryManager
}

func NewNoteService(m repomanager.RepositoryManager) *NoteService {
	return &NoteService{repomanager: m}
}

func (s *NoteService) List(ctx context.Context, ownerID string, f noteset.Filter) ([]models.Note, error) {
	notes, err := s.repomanager.Notes().Find(ctx, ownerID, f.Predicate())
	if err != nil {
		return nil, storeError("list notes", err)
	}
	return notes, nil
}

// Tags aggregates the tags over all of the owner's notes.
func (s *NoteService) Tags(ctx context.Context, ownerID string) ([]noteset.TagCount, error) {
	notes, err := s.repomanager.Notes().Find(ctx, ownerID, nil)
	if err != nil {
		return nil, storeError("list notes", err)
	}
	return noteset.AggregateTags(notes), nil
}

func (s *NoteService) Get(ctx context.Context, id, ownerID string) (*models.Note, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	n, err := s.repomanager.Notes().FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, storeError("get note", err)
	}
	return n, nil
}

func (s *NoteService) Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	n, err := s.repomanager.Notes().Create(ctx, &models.Note{
		UserID:  ownerID,
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
	})
	if err != nil {
		return nil, storeError("create note", err)
	}
	return n, nil
}

// Replace is a full update: title and content are required, missing tags
// become an empty list.
func (s *NoteService) Replace(ctx context.Context, id, ownerID string, in models.NoteInput) (*models.Note, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	n, err := s.repomanager.Notes().Replace(ctx, id, ownerID, in)
	if err != nil {
		return nil, storeError("replace note", err)
	}
	return n, nil
}

// Patch modifies only the fields present in p.
func (s *NoteService) Patch(ctx context.Context, id, ownerID string, p models.NotePatch) (*models.Note, error) {
	if p.Empty() {
		return nil, common.NewValidationError("no updatable fields provided")
	}

	var problems []string
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			problems = append(problems, "title must not be empty")
		}
		p.Title = &title
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		problems = append(problems, "content must not be empty")
	}
	if len(problems) > 0 {
		return nil, common.NewValidationError(problems...)
	}
	if p.Tags != nil {
		tags := noteset.NormalizeTags(*p.Tags)
		p.Tags = &tags
	}

	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	n, err := s.repomanager.Notes().Update(ctx, id, ownerID, p)
	if err != nil {
		return nil, storeError("update note", err)
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, id, ownerID string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Notes().Delete(ctx, id, ownerID); err != nil {
		return storeError("delete note", err)
	}
	return nil
}

func normalizeInput(in models.NoteInput) (models.NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)

	var problems []string
	if in.Title == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		problems = append(problems, "content is required")
	}
	if len(problems) > 0 {
		return in, common.NewValidationError(problems...)
	}

	in.Tags = noteset.NormalizeTags(in.Tags)
	return in, nil
}

// validID reports whether id can name a stored note; anything else is
// reported as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
)

const (
	alice = "alice-id"
	bob   = "bob-id"
)

func strptr(s string) *string { return &s }

func newNoteService() *NoteService {
	return NewNoteService(repomanager.NewMemoryRepositoryManager())
}

func TestNoteCreate_OwnerFromIdentity(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	n, err := s.Create(ctx, alice, models.NoteInput{Title: " A ", Content: "B", Tags: []string{"x", " ", " y "}})
	require.NoError(t, err)
	assert.Equal(t, alice, n.UserID)
	assert.Equal(t, "A", n.Title)
	assert.Equal(t, []string{"x", "y"}, n.Tags)

	n, err = s.Create(ctx, alice, models.NoteInput{Title: "A", Content: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, n.Tags)
}

func TestNoteCreate_Validation(t *testing.T) {
	s := newNoteService()

	for _, in := range []models.NoteInput{
		{Title: "", Content: "B"},
		{Title: "   ", Content: "B"},
		{Title: "A", Content: ""},
		{},
	} {
		_, err := s.Create(context.Background(), alice, in)
		assert.ErrorIs(t, err, common.ErrorBadRequest, "%+v", in)
	}
}

func TestNotes_CrossOwnerIsNotFound(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	n, err := s.Create(ctx, alice, models.NoteInput{Title: "A", Content: "B", Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = s.Get(ctx, n.ID, bob)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.NotErrorIs(t, err, common.ErrorForbidden)

	_, err = s.Replace(ctx, n.ID, bob, models.NoteInput{Title: "X", Content: "Y"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Patch(ctx, n.ID, bob, models.NotePatch{Title: strptr("X")})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, s.Delete(ctx, n.ID, bob), common.ErrorNotFound)

	list, err := s.List(ctx, bob, noteset.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := s.Get(ctx, n.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, *n, *got)
}

func TestNotes_InvalidIDIsNotFound(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	_, err := s.Get(ctx, "not-a-uuid", alice)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "../etc", alice), common.ErrorNotFound)
	_, err = s.Replace(ctx, "x", alice, models.NoteInput{Title: "A", Content: "B"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Get(ctx, uuid.NewString(), alice)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestNotePatch(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	n, err := s.Create(ctx, alice, models.NoteInput{Title: "A", Content: "B", Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = s.Patch(ctx, n.ID, alice, models.NotePatch{})
	assert.ErrorIs(t, err, common.ErrorBadRequest)

	_, err = s.Patch(ctx, n.ID, alice, models.NotePatch{Title: strptr("  ")})
	assert.ErrorIs(t, err, common.ErrorBadRequest)

	_, err = s.Patch(ctx, n.ID, alice, models.NotePatch{Content: strptr("")})
	assert.ErrorIs(t, err, common.ErrorBadRequest)

	got, err := s.Patch(ctx, n.ID, alice, models.NotePatch{Content: strptr("C")})
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, []string{"x"}, got.Tags)

	tags := []string{" go ", ""}
	got, err = s.Patch(ctx, n.ID, alice, models.NotePatch{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, "C", got.Content)
}

func TestNoteReplace(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	n, err := s.Create(ctx, alice, models.NoteInput{Title: "A", Content: "B", Tags: []string{"x"}})
	require.NoError(t, err)

	got, err := s.Replace(ctx, n.ID, alice, models.NoteInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, []string{}, got.Tags, "full update without tags clears them")

	_, err = s.Replace(ctx, n.ID, alice, models.NoteInput{Title: "T"})
	assert.ErrorIs(t, err, common.ErrorBadRequest)
}

func TestNoteListAndTags(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	for _, in := range []models.NoteInput{
		{Title: "Shopping", Content: "milk", Tags: []string{"home"}},
		{Title: "Standup", Content: "notes", Tags: []string{"work", "daily"}},
		{Title: "Retro", Content: "Milk the feedback", Tags: []string{"work"}},
	} {
		_, err := s.Create(ctx, alice, in)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, bob, models.NoteInput{Title: "Bob's", Content: "milk", Tags: []string{"work"}})
	require.NoError(t, err)

	list, err := s.List(ctx, alice, noteset.Filter{Tag: "work"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.List(ctx, alice, noteset.Filter{Search: "MILK"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.List(ctx, alice, noteset.Filter{Tag: "work", Search: "milk"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Retro", list[0].Title)

	tags, err := s.Tags(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []noteset.TagCount{{Tag: "work", Count: 2}, {Tag: "daily", Count: 1}, {Tag: "home", Count: 1}}, tags)
}

func TestNoteDelete(t *testing.T) {
	s := newNoteService()
	ctx := context.Background()

	n, err := s.Create(ctx, alice, models.NoteInput{Title: "A", Content: "B"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, n.ID, alice))
	assert.ErrorIs(t, s.Delete(ctx, n.ID, alice), common.ErrorNotFound)
}

func TestNotes_StoreFailureIsInternal(t *testing.T) {
	s := NewNoteService(brokenManager{err: errStoreDown})
	ctx := context.Background()
	id := uuid.NewString()

	_, err := s.List(ctx, alice, noteset.Filter{})
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Tags(ctx, alice)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Get(ctx, id, alice)
	assert.ErrorIs(t, err, common.ErrorInternal)
	_, err = s.Create(ctx, alice, models.NoteInput{Title: "A", Content: "B"})
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, s.Delete(ctx, id, alice), common.ErrorInternal)
}

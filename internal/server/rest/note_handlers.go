package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/logging"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
)

type noteRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

func (req noteRequest) input() models.NoteInput {
	return models.NoteInput{Title: req.Title, Content: req.Content, Tags: req.Tags}
}

// owner returns the authenticated user id; the guard guarantees it is set.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		fail(w, r, common.ErrorUnauthorized, "")
		return "", false
	}
	return u.ID, true
}

// noteError logs unexpected failures and writes the reply.
func noteError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		log.Error(r.Context(), "note operation failed", logging.Err(err))
	}
	fail(w, r, err, "note not found")
}

func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	const op = "rest.ListNotes"
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	q := r.URL.Query()
	notes, err := h.notes.List(ctx, ownerID, noteset.Filter{Tag: q.Get("tag"), Search: q.Get("q")})
	if err != nil {
		noteError(w, r, h.log(r, op), err)
		return
	}

	render.JSON(w, r, notes)
}

func (h *Handlers) NoteTags(w http.ResponseWriter, r *http.Request) {
	const op = "rest.NoteTags"
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	tags, err := h.notes.Tags(ctx, ownerID)
	if err != nil {
		noteError(w, r, h.log(r, op), err)
		return
	}

	render.JSON(w, r, tags)
}

func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	const op = "rest.CreateNote"
	log := h.log(r, op)
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug(r.Context(), "failed to decode request body", logging.Err(err))
		fail(w, r, common.ErrorBadRequest, "failed to decode request")
		return
	}
	if err := validateRequest(req); err != nil {
		fail(w, r, err, "")
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	note, err := h.notes.Create(ctx, ownerID, req.input())
	if err != nil {
		noteError(w, r, log, err)
		return
	}

	log.Info(r.Context(), "note created", "note_id", note.ID, "user_id", ownerID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, note)
}

func (h *Handlers) GetNote(w http.ResponseWriter, r *http.Request) {
	const op = "rest.GetNote"
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	note, err := h.notes.Get(ctx, chi.URLParam(r, "id"), ownerID)
	if err != nil {
		noteError(w, r, h.log(r, op), err)
		return
	}

	render.JSON(w, r, note)
}

// ReplaceNote is PUT: a full update.
func (h *Handlers) ReplaceNote(w http.ResponseWriter, r *http.Request) {
	const op = "rest.ReplaceNote"
	log := h.log(r, op)
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug(r.Context(), "failed to decode request body", logging.Err(err))
		fail(w, r, common.ErrorBadRequest, "failed to decode request")
		return
	}
	if err := validateRequest(req); err != nil {
		fail(w, r, err, "")
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	note, err := h.notes.Replace(ctx, chi.URLParam(r, "id"), ownerID, req.input())
	if err != nil {
		noteError(w, r, log, err)
		return
	}

	render.JSON(w, r, note)
}

// PatchNote is PATCH: only fields present in the body change.
func (h *Handlers) PatchNote(w http.ResponseWriter, r *http.Request) {
	const op = "rest.PatchNote"
	log := h.log(r, op)
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	var patch models.NotePatch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		log.Debug(r.Context(), "failed to decode request body", logging.Err(err))
		fail(w, r, common.ErrorBadRequest, "failed to decode request")
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	note, err := h.notes.Patch(ctx, chi.URLParam(r, "id"), ownerID, patch)
	if err != nil {
		noteError(w, r, log, err)
		return
	}

	render.JSON(w, r, note)
}

func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	const op = "rest.DeleteNote"
	log := h.log(r, op)
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.notes.Delete(ctx, id, ownerID); err != nil {
		noteError(w, r, log, err)
		return
	}

	log.Info(r.Context(), "note deleted", "note_id", id, "user_id", ownerID)
	message(w, r, http.StatusOK, "Note deleted")
}

func (h *Handlers) ExportNotes(w http.ResponseWriter, r *http.Request) {
	const op = "rest.ExportNotes"
	log := h.log(r, op)
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	res, err := h.exporter.Export(r.Context(), ownerID)
	if err != nil {
		log.Error(r.Context(), "export failed", logging.Err(err))
		fail(w, r, err, "")
		return
	}

	log.Info(r.Context(), "notes exported", "key", res.Key, "user_id", ownerID)
	render.JSON(w, r, res)
}

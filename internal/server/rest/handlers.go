package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/notesvault/notesvault/internal/logging"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
	"github.com/notesvault/notesvault/internal/server/services"
)

// UserService is what the auth endpoints need from the user layer.
type UserService interface {
	Authenticator
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// NoteService is what the note endpoints need from the note layer. Every
// call carries the owner id of the authenticated user.
type NoteService interface {
	List(ctx context.Context, ownerID string, f noteset.Filter) ([]models.Note, error)
	Tags(ctx context.Context, ownerID string) ([]noteset.TagCount, error)
	Get(ctx context.Context, id, ownerID string) (*models.Note, error)
	Create(ctx context.Context, ownerID string, in models.NoteInput) (*models.Note, error)
	Replace(ctx context.Context, id, ownerID string, in models.NoteInput) (*models.Note, error)
	Patch(ctx context.Context, id, ownerID string, p models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Exporter snapshots a user's notes to object storage.
type Exporter interface {
	Export(ctx context.Context, ownerID string) (*services.ExportResult, error)
}

// Handlers holds the dependencies shared by all endpoints.
type Handlers struct {
	users        UserService
	notes        NoteService
	exporter     Exporter
	logger       logging.Logger
	storeTimeout time.Duration
}

// NewHandlers wires the endpoint dependencies. exporter may be nil, in which
// case the export endpoint is not registered.
func NewHandlers(l logging.Logger, us UserService, ns NoteService, exporter Exporter, storeTimeout time.Duration) *Handlers {
	return &Handlers{
		users:        us,
		notes:        ns,
		exporter:     exporter,
		logger:       l,
		storeTimeout: storeTimeout,
	}
}

func (h *Handlers) log(r *http.Request, op string) logging.Logger {
	return h.logger.With("op", op, "request_id", middleware.GetReqID(r.Context()))
}

func (h *Handlers) storeCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return withStoreTimeout(r.Context(), h.storeTimeout)
}

// Banner answers GET / so a browser or probe sees the API is up.
func (h *Handlers) Banner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("NotesVault API is running\n"))
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/notesvault/notesvault/internal/client/api"
	"github.com/notesvault/notesvault/internal/client/config"
	"github.com/notesvault/notesvault/internal/client/session"
	"github.com/notesvault/notesvault/internal/logging"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
)

// NotesAPI is the part of api.Client the commands use.
type NotesAPI interface {
	SetToken(token string)
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context) (string, error)
	ListNotes(ctx context.Context, tag, search string) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error)
	PatchNote(ctx context.Context, id string, p models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	Export(ctx context.Context) (*api.ExportLink, error)
	HTTPClient() *http.Client
}

// SessionStore keeps the signed-in session between runs.
type SessionStore interface {
	Save(ctx context.Context, s session.Session) error
	Load(ctx context.Context) (session.Session, bool, error)
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	api      NotesAPI
	sessions SessionStore
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	username string
	loggedIn bool
}

// NewApp opens the session file and restores a previous login if there is one.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := session.Open(ctx, c.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}

	l := logging.New(logging.EnvProd, os.Stderr)
	a := newApp(api.New(c.ServerURL, nil, c.RequestTimeout), store, l, os.Stdin, os.Stdout)
	if err := a.restore(ctx); err != nil {
		l.Warn(ctx, "could not restore session", logging.Err(err))
	}
	return a, nil
}

func newApp(client NotesAPI, store SessionStore, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{api: client, sessions: store, log: l, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and closes the session store when it ends.
func (a *App) Run(ctx context.Context) {
	defer a.sessions.Close()
	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) restore(ctx context.Context) error {
	s, ok, err := a.sessions.Load(ctx)
	if err != nil || !ok {
		return err
	}
	a.api.SetToken(s.Token)
	a.username = s.Username
	a.loggedIn = true
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) status() string {
	if !a.loggedIn {
		return "guest"
	}
	return a.username
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// forget drops the in-memory and stored session.
func (a *App) forget(ctx context.Context) error {
	a.api.SetToken("")
	a.username = ""
	a.loggedIn = false
	return a.sessions.Clear(ctx)
}

// check reports err to the user. A token the server no longer accepts ends
// the session.
func (a *App) check(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case a.loggedIn && api.SessionRejected(err):
		if cerr := a.forget(ctx); cerr != nil {
			a.log.Error(ctx, "clear session", logging.Err(cerr))
		}
		a.printf("Session expired, please log in again.\n")
	case errors.Is(err, api.ErrUnavailable):
		a.printf("Server unavailable.\n")
	default:
		a.printf("Error: %v\n", err)
	}
	return err
}

// allNotes fetches the full list; filtering happens locally.
func (a *App) allNotes(ctx context.Context) ([]models.Note, error) {
	return a.api.ListNotes(ctx, "", "")
}

func (a *App) printNotes(notes []models.Note) {
	if len(notes) == 0 {
		a.printf("No notes.\n")
		return
	}
	printNoteTable(a.out, notes)
}

func (a *App) printTags(tags []noteset.TagCount) {
	if len(tags) == 0 {
		a.printf("No tags.\n")
		return
	}
	for _, t := range tags {
		a.printf("%s (%d)\n", t.Tag, t.Count)
	}
}

// Package api is the terminal client's view of the NotesVault REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
)

// ExportLink points at a JSON export of the caller's notes.
type ExportLink struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Client talks JSON to one server. The bearer token set with SetToken is
// attached to every request.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a Client for baseURL. A nil httpClient gets one with the given
// timeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// HTTPClient exposes the underlying client for follow-up downloads.
func (c *Client) HTTPClient() *http.Client { return c.http }

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", credentials{username, password}, nil)
}

// Login returns a token; it does not store it on c.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", credentials{username, password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Profile returns the username the server resolves the token to.
func (c *Client) Profile(ctx context.Context) (string, error) {
	var out struct {
		User string `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return "", err
	}
	return out.User, nil
}

// ListNotes lists the caller's notes, optionally narrowed server-side by an
// exact tag and a search term.
func (c *Client) ListNotes(ctx context.Context, tag, search string) ([]models.Note, error) {
	q := url.Values{}
	if tag != "" {
		q.Set("tag", tag)
	}
	if search != "" {
		q.Set("q", search)
	}
	path := "/api/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) Tags(ctx context.Context) ([]noteset.TagCount, error) {
	var tags []noteset.TagCount
	if err := c.do(ctx, http.MethodGet, "/api/notes/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return c.note(ctx, http.MethodGet, notePath(id), nil)
}

func (c *Client) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	return c.note(ctx, http.MethodPost, "/api/notes", in)
}

func (c *Client) ReplaceNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	return c.note(ctx, http.MethodPut, notePath(id), in)
}

func (c *Client) PatchNote(ctx context.Context, id string, p models.NotePatch) (*models.Note, error) {
	return c.note(ctx, http.MethodPatch, notePath(id), p)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, notePath(id), nil, nil)
}

// Export asks the server to write the caller's notes to object storage and
// returns a short-lived download link. Servers without storage answer 404.
func (c *Client) Export(ctx context.Context) (*ExportLink, error) {
	var out ExportLink
	if err := c.do(ctx, http.MethodPost, "/api/notes/export", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func notePath(id string) string {
	return "/api/notes/" + url.PathEscape(id)
}

func (c *Client) note(ctx context.Context, method, path string, body any) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, method, path, body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)
		return &Error{Status: resp.StatusCode, Message: eb.Message, Errors: eb.Errors}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

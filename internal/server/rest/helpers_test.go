package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notesvault/notesvault/internal/logging"
	"github.com/notesvault/notesvault/internal/server/auth"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
	"github.com/notesvault/notesvault/internal/server/services"
)

const testSecret = "test-secret"

type testAPI struct {
	t      *testing.T
	srv    *httptest.Server
	tokens *auth.TokenService
}

func newTestAPI(t *testing.T, exporter Exporter) *testAPI {
	t.Helper()

	m := repomanager.NewMemoryRepositoryManager()
	tokens := auth.NewTokenService([]byte(testSecret), time.Hour, nil)
	h := NewHandlers(logging.Nop{}, services.NewUserService(m, tokens), services.NewNoteService(m), exporter, time.Second)

	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)

	return &testAPI{t: t, srv: srv, tokens: tokens}
}

// do sends body as JSON (when non-nil) with an optional bearer token and
// decodes the JSON reply into out (when non-nil).
func (a *testAPI) do(method, path, token string, body any, out any) int {
	a.t.Helper()

	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testAPI) register(username, password string) int {
	a.t.Helper()
	return a.do(http.MethodPost, "/auth/register", "", map[string]string{"username": username, "password": password}, nil)
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	var resp loginResponse
	status := a.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password}, &resp)
	require.Equal(a.t, http.StatusOK, status)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func (a *testAPI) signup(username, password string) string {
	a.t.Helper()
	require.Equal(a.t, http.StatusCreated, a.register(username, password))
	return a.login(username, password)
}

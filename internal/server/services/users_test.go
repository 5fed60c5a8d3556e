package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/server/auth"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
)

func newUserService() (*UserService, *repomanager.MemoryRepositoryManager) {
	m := repomanager.NewMemoryRepositoryManager()
	return NewUserService(m, newTokens()), m
}

func TestRegister_StoresHashNotSecret(t *testing.T) {
	s, m := newUserService()
	ctx := context.Background()

	u, err := s.Register(ctx, "  alice  ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	stored, err := m.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("secret1"), stored.SecretHash)
	assert.Len(t, stored.SecretSalt, 16)
}

func TestRegister_DuplicateIsConflictAndKeepsOriginal(t *testing.T) {
	s, m := newUserService()
	ctx := context.Background()

	first, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "anything")
	require.ErrorIs(t, err, common.ErrorConflict)

	stored, err := m.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)

	_, err = s.Login(ctx, "alice", "secret1")
	assert.NoError(t, err, "original password still works")
	_, err = s.Login(ctx, "alice", "anything")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRegister_MissingFields(t *testing.T) {
	s, _ := newUserService()

	_, err := s.Register(context.Background(), "   ", "")
	require.ErrorIs(t, err, common.ErrorBadRequest)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Problems, 2)
}

func TestRegister_StoreFailureIsInternal(t *testing.T) {
	s := NewUserService(brokenManager{err: errStoreDown}, newTokens())

	_, err := s.Register(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestLogin(t *testing.T) {
	s, _ := newUserService()
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	tok, err := s.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := s.tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims[auth.ClaimSubject])
	assert.Equal(t, "alice", claims[auth.ClaimUsername])

	tok, err = s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, tok)

	_, errUnknown := s.Login(ctx, "nobody", "secret1")
	assert.Equal(t, common.ErrorUnauthorized, errUnknown, "unknown user and wrong password look the same")
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	s := NewUserService(brokenManager{err: errStoreDown}, newTokens())

	_, err := s.Login(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate(t *testing.T) {
	s, _ := newUserService()
	ctx := context.Background()

	alice, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	tok, err := s.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	s, _ := newUserService()

	_, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, common.ErrorForbidden)
		assert.ErrorIs(t, err, common.ErrTokenMalformed)
	})

	t.Run("other key", func(t *testing.T) {
		tok, err := auth.NewTokenService([]byte("other"), time.Hour, nil).Issue(map[string]any{"sub": "alice"})
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorForbidden)
		assert.ErrorIs(t, err, common.ErrTokenInvalidSignature)
	})

	t.Run("expired", func(t *testing.T) {
		past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
		tok, err := auth.NewTokenService([]byte("test-secret"), time.Hour, past).Issue(map[string]any{"sub": "alice"})
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorForbidden)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("unknown subject", func(t *testing.T) {
		tok, err := s.tokens.Issue(map[string]any{"sub": "ghost"})
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorForbidden)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("id mismatch", func(t *testing.T) {
		tok, err := s.tokens.Issue(auth.ClaimsFor(models.User{ID: "not-alice", Username: "alice"}))
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})

	t.Run("no subject", func(t *testing.T) {
		tok, err := s.tokens.Issue(map[string]any{"foo": "bar"})
		require.NoError(t, err)
		_, err = s.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})
}

func TestAuthenticate_StoreFailureIsInternal(t *testing.T) {
	tokens := newTokens()
	s := NewUserService(brokenManager{err: context.DeadlineExceeded}, tokens)

	tok, err := tokens.Issue(map[string]any{"sub": "alice"})
	require.NoError(t, err)

	_, err = s.Authenticate(context.Background(), tok)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorForbidden)
}

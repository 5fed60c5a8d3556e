package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/cryptox"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/server/auth"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
)

// TokenIssuer is the part of auth.TokenService the user service depends on.
type TokenIssuer interface {
	Issue(claims map[string]any) (string, error)
	Verify(token string) (map[string]any, error)
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer

	// hash material compared against when the username is unknown, so a
	// failed login costs the same whether or not the user exists
	dummyHash []byte
	dummySalt []byte
}

func NewUserService(m repomanager.RepositoryManager, tokens TokenIssuer) *UserService {
	hash, salt := cryptox.HashSecret(common.GenerateRandByteArray(cryptox.KeySize))
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		dummyHash:   hash,
		dummySalt:   salt,
	}
}

// Register creates a user. It does not issue a token.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	var problems []string
	if username == "" {
		problems = append(problems, "username is required")
	}
	if password == "" {
		problems = append(problems, "password is required")
	}
	if len(problems) > 0 {
		return nil, common.NewValidationError(problems...)
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)
	hash, salt := cryptox.HashSecret(pw)

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Username:   username,
		SecretHash: hash,
		SecretSalt: salt,
	})
	if err != nil {
		return nil, storeError("create user", err)
	}

	return user, nil
}

// Login checks the credentials and returns a fresh token. A wrong username
// and a wrong password are the same common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	user, err := s.repomanager.Users().FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifySecret(pw, s.dummyHash, s.dummySalt)
			return "", common.ErrorUnauthorized
		}
		return "", internalError("find user", err)
	}

	if !cryptox.VerifySecret(pw, user.SecretHash, user.SecretSalt) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(auth.ClaimsFor(*user))
	if err != nil {
		return "", internalError("issue token", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to the persisted user it names.
//
// Token failures and subjects that no longer resolve to a user are
// common.ErrorForbidden (token errors keep their own sentinel in the chain);
// store failures are common.ErrorInternal.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorForbidden, err)
	}

	username, userID, err := auth.Identity(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorForbidden, err)
	}

	user, err := s.repomanager.Users().FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", common.ErrorForbidden)
		}
		return nil, internalError("resolve subject", err)
	}

	if userID != "" && userID != user.ID {
		return nil, fmt.Errorf("%w: subject id mismatch", common.ErrorForbidden)
	}

	return user, nil
}

// Package auth issues and verifies the signed, time-bounded bearer tokens
// NotesVault hands out at login. Verification is pure: no session state is
// kept on the server, so a token stays valid until it expires or the signing
// key changes.
package auth

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/models"
)

// Claim names carried by every token.
const (
	ClaimSubject  = "sub"
	ClaimUsername = "username"
	ClaimUserID   = "uid"
	ClaimIssuedAt = "iat"
	ClaimExpiry   = "exp"
)

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = time.Hour

// TokenService signs and verifies HS256 tokens with one process-wide key.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a service signing with secret. A zero ttl means
// DefaultTTL; a nil now means time.Now.
func NewTokenService(secret []byte, ttl time.Duration, now func() time.Time) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: append([]byte(nil), secret...), ttl: ttl, now: now}
}

// Issue signs the given claims together with an issued-at and an expiry
// exactly ttl after the current time. The caller's map is not modified.
func (s *TokenService) Issue(claims map[string]any) (string, error) {
	now := s.now()

	mc := make(jwt.MapClaims, len(claims)+2)
	maps.Copy(mc, claims)
	mc[ClaimIssuedAt] = now.Unix()
	mc[ClaimExpiry] = now.Add(s.ttl).Unix()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks structure, signature and expiry, in that order, and returns
// the embedded claims. Errors are common.ErrTokenMalformed,
// common.ErrTokenInvalidSignature or common.ErrTokenExpired.
func (s *TokenService) Verify(token string) (map[string]any, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, mapTokenError(err)
	}

	return claims, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", common.ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
	}
}

// ClaimsFor builds the identity claims of a token issued to u.
func ClaimsFor(u models.User) map[string]any {
	return map[string]any{
		ClaimSubject:  u.Username,
		ClaimUsername: u.Username,
		ClaimUserID:   u.ID,
	}
}

// Identity extracts the subject username and, when present, the user id from
// verified claims. A missing or non-string subject is a malformed token.
func Identity(claims map[string]any) (username, userID string, err error) {
	username, ok := claims[ClaimSubject].(string)
	if !ok || username == "" {
		return "", "", fmt.Errorf("%w: missing subject", common.ErrTokenMalformed)
	}
	if v, present := claims[ClaimUserID]; present {
		if userID, ok = v.(string); !ok {
			return "", "", fmt.Errorf("%w: bad uid claim", common.ErrTokenMalformed)
		}
	}
	return username, userID, nil
}

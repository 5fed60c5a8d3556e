package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/logging"
	"github.com/notesvault/notesvault/internal/models"
)

// Authenticator resolves a bearer token to a persisted user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// requestLogger writes one access log line per request.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Info(r.Context(), "request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
		return "", errors.New("invalid authorization header")
	}
	return token, nil
}

// Guard admits a request only once its bearer token resolves to a user, and
// hands that user to next through the request context. Rejections:
//
//	no header or not "Bearer <token>"       401
//	bad signature, expired, malformed       403
//	subject no longer resolves to a user    403
//	credential store failure or timeout     500
//
// The guard only reads from the credential store.
func Guard(auth Authenticator, log logging.Logger, storeTimeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "rest.Guard"
			log := log.With("op", op, "request_id", middleware.GetReqID(r.Context()))

			token, err := bearerToken(r)
			if err != nil {
				log.Debug(r.Context(), "rejected request", logging.Err(err))
				fail(w, r, common.ErrorUnauthorized, err.Error())
				return
			}

			ctx, cancel := withStoreTimeout(r.Context(), storeTimeout)
			user, err := auth.Authenticate(ctx, token)
			cancel()
			if err != nil {
				if errors.Is(err, common.ErrorForbidden) {
					log.Info(r.Context(), "token rejected", logging.Err(err))
				} else {
					log.Error(r.Context(), "failed to resolve identity", logging.Err(err))
				}
				fail(w, r, err, "")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// withStoreTimeout bounds a store round trip. A non-positive timeout leaves
// the context as is.
func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

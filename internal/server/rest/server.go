// Package rest is the HTTP API of NotesVault: JSON endpoints for
// registration, login and owner-scoped note CRUD behind a bearer-token guard.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/notesvault/notesvault/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, h *Handlers) *Server {
	return &Server{
		address: address,
		handler: NewRouter(h),
		logger:  l.With("module", "rest_server"),
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is done, then shuts down gracefully, letting in-flight
// requests finish within shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "REST server shutdown", logging.Err(err))
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

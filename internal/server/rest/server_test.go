package rest

import (
	"context"
	"testing"
	"time"

	"github.com/notesvault/notesvault/internal/logging"
)

func newIdleServer(addr string) *Server {
	return NewServer(addr, logging.Nop{}, NewHandlers(logging.Nop{}, nil, nil, nil, time.Second))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newIdleServer("127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newIdleServer("127.0.0.1:99999")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

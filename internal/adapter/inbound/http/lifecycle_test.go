package http

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/atelier-store/atelier/internal/adapter/outbound/memory"
	"github.com/atelier-store/atelier/internal/domain/policy"
	"github.com/atelier-store/atelier/internal/domain/token"
	"github.com/atelier-store/atelier/internal/service"
)

func TestServerStartAndGracefulShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec, err := token.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	srv := NewServer(
		service.NewUserService(memory.NewUserStore(), codec, logger),
		service.NewCatalogService(memory.NewProductStore(), logger),
		codec,
		policy.NewEngine(policy.DefaultRules(), 16),
		WithAddr("127.0.0.1:0"),
		WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// Give the listener a moment to bind, then trigger graceful shutdown.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error on cancellation: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down within 5s")
	}
}

func TestServerCloseBeforeStart(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec, err := token.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	srv := NewServer(
		service.NewUserService(memory.NewUserStore(), codec, logger),
		service.NewCatalogService(memory.NewProductStore(), logger),
		codec,
		policy.NewEngine(policy.DefaultRules(), 16),
		WithLogger(logger),
	)

	if err := srv.Close(); err != nil {
		t.Errorf("Close before Start: %v", err)
	}
}

// Package http provides the inbound HTTP transport for the Atelier backend.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelier-store/atelier/internal/domain/policy"
	"github.com/atelier-store/atelier/internal/domain/token"
	"github.com/atelier-store/atelier/internal/service"
)

// Server is the inbound adapter that exposes the account and catalog services
// over HTTP.
type Server struct {
	users    *service.UserService
	catalog  *service.CatalogService
	codec    *token.Codec
	engine   *policy.Engine
	server   *http.Server
	addr     string
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	health   *HealthChecker
}

// Option is a functional option for configuring Server.
type Option func(*Server)

// WithAddr sets the listen address for the HTTP server.
// Default is "127.0.0.1:8080" (localhost only).
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger for the HTTP server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry sets the Prometheus registry backing /metrics.
// A fresh registry with the standard process collectors is used by default.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithHealthChecker sets the health checker for the /healthz endpoint.
func WithHealthChecker(hc *HealthChecker) Option {
	return func(s *Server) {
		s.health = hc
	}
}

// NewServer creates the HTTP server over the given services.
func NewServer(users *service.UserService, catalog *service.CatalogService, codec *token.Codec, engine *policy.Engine, opts ...Option) *Server {
	s := &Server{
		users:   users,
		catalog: catalog,
		codec:   codec,
		engine:  engine,
		addr:    "127.0.0.1:8080",
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if s.health == nil {
		s.health = NewHealthChecker(nil, "")
	}
	s.metrics = NewMetrics(s.registry)

	return s
}

// Handler builds the full middleware chain and route table.
//
// Middleware order (outermost first):
//  1. MetricsMiddleware - record duration and status for the whole request
//  2. RequestIDMiddleware - correlation ID and enriched logger
//  3. RecoveryMiddleware - panics become 500s
//  4. AuthMiddleware - resolve the caller from the bearer token
//  5. PolicyMiddleware - evaluate the access rule table
//  6. mux - route to the handler
func (s *Server) Handler() http.Handler {
	validate := newValidator()
	userHandler := NewUserHandler(s.users, validate, s.metrics)
	adminHandler := NewAdminHandler(s.users, validate)
	moderatorHandler := NewModeratorHandler(s.users)
	productHandler := NewProductHandler(s.catalog, validate)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/register", userHandler.Register)
	mux.HandleFunc("POST /api/users/login", userHandler.Login)
	mux.HandleFunc("GET /api/users/me", userHandler.Me)
	mux.HandleFunc("POST /api/users/logout", userHandler.Logout)
	mux.HandleFunc("PUT /api/users/updatePassword", userHandler.UpdatePassword)
	mux.HandleFunc("GET /api/users/canReset", userHandler.CanReset)

	mux.HandleFunc("GET /api/admin/userId/{userId}", adminHandler.GetByID)
	mux.HandleFunc("GET /api/admin/userNumber/{userNumber}", adminHandler.GetByNumber)
	mux.HandleFunc("GET /api/admin/getAllUsers", adminHandler.List)
	mux.HandleFunc("PUT /api/admin/updateUser/{id}", adminHandler.Update)
	mux.HandleFunc("DELETE /api/admin/deleteUser/{id}", adminHandler.Delete)
	mux.HandleFunc("POST /api/admin/changeRole/{userId}", adminHandler.ChangeRole)

	mux.HandleFunc("GET /api/moderator/getStatus/{userNumber}", moderatorHandler.GetStatus)
	mux.HandleFunc("GET /api/moderator/canReset/{userNumber}", moderatorHandler.CanReset)
	mux.HandleFunc("POST /api/moderator/blockUser/{userNumber}", moderatorHandler.Block)
	mux.HandleFunc("POST /api/moderator/unblockUser/{userNumber}", moderatorHandler.Unblock)
	mux.HandleFunc("GET /api/moderator/userId/{userId}", moderatorHandler.GetByID)
	mux.HandleFunc("GET /api/moderator/userNumber/{userNumber}", moderatorHandler.GetByNumber)

	mux.HandleFunc("GET /api/products/getAllProducts", productHandler.List)
	mux.HandleFunc("GET /api/products/getProductById/{id}", productHandler.GetByID)
	mux.HandleFunc("GET /api/products/productByGender/{gender}", productHandler.ListByGender)
	mux.HandleFunc("GET /api/products/productByPrice", productHandler.ListByPrice)
	mux.HandleFunc("GET /api/products/productBetweenDate", productHandler.ListByDate)
	mux.HandleFunc("GET /api/products/productByCategory/{category}", productHandler.ListByCategory)
	mux.HandleFunc("POST /api/products/createProduct", productHandler.Create)
	mux.HandleFunc("PUT /api/products/updateProduct/{id}", productHandler.Update)
	mux.HandleFunc("DELETE /api/products/deleteProduct/{id}", productHandler.Delete)

	mux.HandleFunc("GET /api/docs", docsHandler)
	mux.Handle("GET /healthz", s.health.Handler())
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		Registry: s.registry,
	}))

	var handler http.Handler = mux
	handler = PolicyMiddleware(s.engine, s.metrics)(handler)
	handler = AuthMiddleware(s.codec, s.users, s.metrics)(handler)
	handler = RecoveryMiddleware(handler)
	handler = RequestIDMiddleware(s.logger)(handler)
	handler = MetricsMiddleware(s.metrics)(handler)
	return handler
}

// Start begins accepting HTTP connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down HTTP server")
		return s.shutdown()
	case err := <-errCh:
		return err
	}
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	return s.shutdown()
}

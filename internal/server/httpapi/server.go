// Package httpapi exposes the SRP authentication flow over HTTP/JSON.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dpetukhov/srpvault/internal/logging"
	"github.com/dpetukhov/srpvault/internal/server/login"
)

// Server is the public HTTP endpoint of srpvault.
type Server struct {
	address   string
	logger    logging.Logger
	login     *login.Service
	gate      *login.Gate
	jwtSecret []byte
}

// NewServer wires the login service and confirmation gate into an HTTP
// server bound to the given address.
func NewServer(address string, l logging.Logger, ls *login.Service, g *login.Gate, secretKey string) (*Server, error) {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		login:     ls,
		gate:      g,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/srp/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/srp/prepare", s.handlePrepare)
	mux.HandleFunc("POST /api/auth/srp/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/srp/confirm", s.handleConfirm)
	mux.HandleFunc("PATCH /api/auth/srp/password", s.requireAuth(s.handleUpdatePassword))
	mux.HandleFunc("GET /api/ping", s.handlePing)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

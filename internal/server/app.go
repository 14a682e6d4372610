// Package server initializes and runs the srpvault application server: it
// opens the database, runs migrations, wires the login service and
// confirmation gate, and serves the HTTP API until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dpetukhov/srpvault/internal/logging"
	"github.com/dpetukhov/srpvault/internal/server/config"
	"github.com/dpetukhov/srpvault/internal/server/httpapi"
	"github.com/dpetukhov/srpvault/internal/server/login"
	"github.com/dpetukhov/srpvault/internal/server/repositories/repomanager"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	loginService *login.Service
	gate         *login.Gate
	attempts     *login.AttemptStore
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	attempts := login.NewAttemptStore(c.LoginAttemptTTL)
	ls := login.NewService(db, rm, attempts, c)
	gate := login.NewGate(db, rm, c)

	return &App{config: c, logger: logger, loginService: ls, gate: gate, attempts: attempts}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.loginService, app.gate, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer app.attempts.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}

// Package server wires the application together: configuration, logging,
// database and migrations, services, and the HTTP server with graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/batteriesproject/server/internal/logging"
	"github.com/batteriesproject/server/internal/server/config"
	"github.com/batteriesproject/server/internal/server/httpapi"
	"github.com/batteriesproject/server/internal/server/repositories/repomanager"
	"github.com/batteriesproject/server/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	sessionService *services.SessionService
	companyService *services.CompanyService
	mediaService   *services.MediaService
	repomanager    repomanager.RepositoryManager
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rt := services.NewRefreshTokenService(db, rm, cfg)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		sessionService: services.NewSessionService(db, rm, rt, cfg),
		companyService: services.NewCompanyService(db, rm),
		mediaService:   services.NewMediaService(db, rm, cfg),
		repomanager:    rm,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(
		app.config.EndpointAddr,
		app.logger,
		app.sessionService,
		app.companyService,
		app.mediaService,
		app.repomanager.ErrorLogs(app.db),
		app.config.SecretKey,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}

// Package server initializes and runs the hapi application server.
// It wires the database, repositories, token strategy, and artifact store,
// runs schema migrations, and starts the HTTP server with graceful shutdown.
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

	"github.com/geauxvirtual/hapi/internal/filex"
	"github.com/geauxvirtual/hapi/internal/logging"
	"github.com/geauxvirtual/hapi/internal/server/activities"
	"github.com/geauxvirtual/hapi/internal/server/artifacts"
	"github.com/geauxvirtual/hapi/internal/server/auth"
	"github.com/geauxvirtual/hapi/internal/server/config"
	"github.com/geauxvirtual/hapi/internal/server/httpapi"
	"github.com/geauxvirtual/hapi/internal/server/repositories/repomanager"
	"github.com/geauxvirtual/hapi/internal/server/tokens"
	"github.com/geauxvirtual/hapi/internal/server/upload"
	"github.com/geauxvirtual/hapi/internal/server/users"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *users.Service
	activityService *activities.Service
	ingestor        *upload.Ingestor
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	hasher, err := auth.NewHasher(auth.DefaultParams())
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	strategy, err := tokens.New(cfg.TokenScheme, rm.Tokens(db), []byte(cfg.SecretKey), cfg.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token strategy init error: %w", err)
	}

	store, err := newArtifactStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("artifact store init error: %w", err)
	}

	us := users.NewService(db, rm, hasher, strategy, logger)
	as := activities.NewService(rm.Activities(db), store, logger)
	ing := upload.NewIngestor(cfg.BodyLimit, cfg.FileLimit, cfg.TempDir)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		userService:     us,
		activityService: as,
		ingestor:        ing,
	}, nil
}

func newArtifactStore(ctx context.Context, cfg *config.Config) (artifacts.Store, error) {
	switch cfg.ArtifactBackend {
	case artifacts.BackendS3:
		return artifacts.NewS3Store(ctx, artifacts.S3Options{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case artifacts.BackendLocal:
		if err := filex.EnsureDir(cfg.FileDir); err != nil {
			return nil, err
		}
		return artifacts.NewLocalStore(cfg.FileDir), nil
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.ArtifactBackend)
	}
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

	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.userService, app.activityService, app.ingestor)

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
		app.logger.Error(ctx, "error closing database", "error", err)
	}
}

// Package server initializes and runs the vidstream application server.
// It wires configuration, storage, the media store and the HTTP endpoint,
// and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/config"
	"github.com/dmitrijs2005/vidstream/internal/server/db"
	"github.com/dmitrijs2005/vidstream/internal/server/httpapi"
	"github.com/dmitrijs2005/vidstream/internal/server/media"
	"github.com/dmitrijs2005/vidstream/internal/server/sessions"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
	"github.com/dmitrijs2005/vidstream/internal/server/videos"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      db.RepositoryManager
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mediaStore, err := media.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media store init error: %w", err)
	}

	userService := users.NewService(rm.Users(), mediaStore)
	sessionService := sessions.NewService(rm.Users(), cfg)
	videoService := videos.NewService(rm.Videos())

	httpServer := httpapi.NewServer(cfg, logger, sessionService, userService, videoService, rm.Users())

	return &App{
		config:     cfg,
		logger:     logger,
		repos:      rm,
		httpServer: httpServer,
	}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}

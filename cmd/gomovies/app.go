package main

import (
	"context"
	"fmt"

	"github.com/amaumene/gomovies/internal/cache"
	"github.com/amaumene/gomovies/internal/config"
	"github.com/amaumene/gomovies/internal/controller"
	"github.com/amaumene/gomovies/internal/database"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/internal/services"
	"github.com/amaumene/gomovies/internal/trending"
	"github.com/amaumene/gomovies/pkg/httputil"
	"github.com/amaumene/gomovies/pkg/logger"
)

// app is the wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    logger.Logger
	container *services.Container
}

func newApp(ctx context.Context, configPath string, debug bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log := logger.NewWithLevel(level)
	if !logger.ValidLevel(level) {
		log.Warnf("[App] unknown log level '%s', defaulting to info", level)
	}

	store, err := database.Open(ctx, cfg.StoreBackend, cfg.DatabasePath, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	log.Infof("[App] %s trending store initialized successfully", cfg.StoreBackend)

	pageCache := cache.New[*models.MoviePage](cfg.CacheSize, cfg.CacheTTL.Duration)
	tmdb := services.NewTMDB(cfg.TMDBToken, cfg.TMDBBaseURL, pageCache,
		httputil.NewHTTPClient(cfg.RequestTimeout.Duration), log)

	container := &services.Container{
		TMDB:     tmdb,
		Cache:    pageCache,
		Store:    store,
		Logger:   log,
		Trending: trending.NewLoader(store, cfg.TrendingLimit, log),
		Recorder: controller.NewAsyncRecorder(store, log, controller.DefaultOptions().RecordConcurrency),
		Cleanup:  services.NewCleanupService(log),
	}
	container.Cleanup.Register("tmdb-pages", container.Cache)

	log.Infof("[App] services initialized (tmdb=%s, token=%s)", cfg.TMDBBaseURL, cfg.MaskedToken())
	return &app{cfg: cfg, logger: log, container: container}, nil
}

// requireToken fails fast for commands that talk to TMDB.
func (a *app) requireToken() error {
	if a.cfg.TMDBToken == "" {
		return apperrors.NewTokenMissingError("TMDB")
	}
	return nil
}

func (a *app) controllerOptions() controller.Options {
	opts := controller.DefaultOptions()
	opts.DebounceDelay = a.cfg.DebounceDelay.Duration
	opts.Logger = a.logger
	return opts
}

func (a *app) Close() {
	if err := a.container.Close(); err != nil {
		a.logger.Errorf("[App] failed to close store: %v", err)
	}
}

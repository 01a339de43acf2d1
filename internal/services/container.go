// Package services provides the TMDB client and the dependency container
// shared by the HTTP server and the command-line client.
package services

import (
	"context"

	"github.com/amaumene/gomovies/internal/cache"
	"github.com/amaumene/gomovies/internal/controller"
	"github.com/amaumene/gomovies/internal/database"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/internal/trending"
	"github.com/amaumene/gomovies/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	TMDB     TMDBService
	Cache    *cache.LRUCache[*models.MoviePage]
	Store    database.TrendingStore
	Logger   logger.Logger
	Trending *trending.Loader
	Recorder *controller.AsyncRecorder
	Cleanup  *CleanupService
}

// TMDBService defines the interface for TMDB API operations.
type TMDBService interface {
	FetchPage(ctx context.Context, query string, page int) (*models.MoviePage, error)
	SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error)
	DiscoverMovies(ctx context.Context, page int) (*models.MoviePage, error)
}

var _ TMDBService = (*TMDB)(nil)

// NewController builds a controller backed by the container's TMDB client
// and trending store.
func (c *Container) NewController(opts controller.Options) *controller.Controller {
	if opts.Logger == nil {
		opts.Logger = c.Logger
	}
	var recorder controller.SearchRecorder
	if c.Store != nil {
		recorder = c.Store
	}
	return controller.New(c.TMDB, recorder, opts)
}

// Close waits for pending search recordings and closes the store.
func (c *Container) Close() error {
	if c.Cleanup != nil {
		c.Cleanup.Stop()
	}
	c.Recorder.Wait()
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/amaumene/gomovies/internal/cache"
	"github.com/amaumene/gomovies/internal/constants"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/pkg/httputil"
	"github.com/amaumene/gomovies/pkg/logger"
	"github.com/amaumene/gomovies/pkg/ratelimiter"
	"github.com/amaumene/gomovies/pkg/security"
)

type TMDB struct {
	token       string
	baseURL     string
	cache       *cache.LRUCache[*models.MoviePage]
	rateLimiter ratelimiter.RateLimiter
	httpClient  *http.Client
	logger      logger.Logger
	validator   *security.TokenValidator
}

// NewTMDB builds a client for the TMDB v3 API. pageCache may be nil to
// disable caching; httpClient may be nil to use the default client.
func NewTMDB(token, baseURL string, pageCache *cache.LRUCache[*models.MoviePage], httpClient *http.Client, log logger.Logger) *TMDB {
	validator := security.NewTokenValidator()

	if baseURL == "" {
		baseURL = constants.DefaultTMDBBaseURL
	}
	if httpClient == nil {
		httpClient = httputil.NewHTTPClient(constants.RequestTimeout)
	}
	if log == nil {
		log = logger.New()
	}

	return &TMDB{
		token:       validator.SanitizeToken(token),
		baseURL:     strings.TrimRight(baseURL, "/"),
		cache:       pageCache,
		rateLimiter: ratelimiter.NewTokenBucket(constants.TMDBRateCapacity, constants.TMDBRateRefill),
		httpClient:  httpClient,
		logger:      log,
		validator:   validator,
	}
}

// FetchPage returns one page of results: discover when query is empty,
// search otherwise.
func (t *TMDB) FetchPage(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	if query == "" {
		return t.DiscoverMovies(ctx, page)
	}
	return t.SearchMovies(ctx, query, page)
}

// SearchMovies calls /search/movie.
func (t *TMDB) SearchMovies(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	if page < 1 {
		return nil, apperrors.NewInvalidPageError(page)
	}

	cacheKey := fmt.Sprintf("search:%s:%d", query, page)
	if cached := t.checkMemoryCache(cacheKey); cached != nil {
		return cached, nil
	}

	result, err := t.fetchMoviePage(ctx, t.buildSearchURL(query, page))
	if err != nil {
		return nil, fmt.Errorf("search %q page %d: %w", query, page, err)
	}

	t.logger.Debugf("[TMDB] search '%s' page %d: %d results of %d", query, page, len(result.Results), result.TotalResults)
	t.storeMemoryCache(cacheKey, result)
	return result, nil
}

// DiscoverMovies calls /discover/movie sorted by popularity.
func (t *TMDB) DiscoverMovies(ctx context.Context, page int) (*models.MoviePage, error) {
	if page < 1 {
		return nil, apperrors.NewInvalidPageError(page)
	}

	cacheKey := fmt.Sprintf("discover:%d", page)
	if cached := t.checkMemoryCache(cacheKey); cached != nil {
		return cached, nil
	}

	result, err := t.fetchMoviePage(ctx, t.buildDiscoverURL(page))
	if err != nil {
		return nil, fmt.Errorf("discover page %d: %w", page, err)
	}

	t.logger.Debugf("[TMDB] discover page %d: %d results", page, len(result.Results))
	t.storeMemoryCache(cacheKey, result)
	return result, nil
}

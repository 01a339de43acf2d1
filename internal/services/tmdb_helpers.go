package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amaumene/gomovies/internal/constants"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
)

func (t *TMDB) validateToken() error {
	if t.token == "" {
		return apperrors.NewTokenMissingError("TMDB")
	}
	if !t.validator.IsValidTMDBToken(t.token) {
		t.logger.Errorf("[TMDB] failed to make API request: invalid token format (token: %s)", t.validator.MaskToken(t.token))
		return apperrors.NewTMDBError("invalid TMDB token format", nil)
	}
	return nil
}

func (t *TMDB) checkMemoryCache(cacheKey string) *models.MoviePage {
	if t.cache == nil {
		return nil
	}
	if page, found := t.cache.Get(cacheKey); found {
		t.logger.Debugf("[TMDB] cache hit for %s", cacheKey)
		return page
	}
	return nil
}

func (t *TMDB) storeMemoryCache(cacheKey string, page *models.MoviePage) {
	if t.cache == nil {
		return
	}
	t.cache.Set(cacheKey, page)
}

func (t *TMDB) buildSearchURL(query string, page int) string {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	return t.baseURL + "/search/movie?" + params.Encode()
}

func (t *TMDB) buildDiscoverURL(page int) string {
	params := url.Values{}
	params.Set("sort_by", constants.DiscoverSortOrder)
	params.Set("page", strconv.Itoa(page))
	return t.baseURL + "/discover/movie?" + params.Encode()
}

func (t *TMDB) fetchMoviePage(ctx context.Context, apiURL string) (*models.MoviePage, error) {
	if err := t.validateToken(); err != nil {
		return nil, err
	}

	if err := t.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	t.logger.Debugf("[TMDB] API URL: %s", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, apperrors.NewTMDBError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTMDBError("failed to fetch TMDB data", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewTMDBStatusError(resp.StatusCode, resp.Status)
	}

	var page models.MoviePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, apperrors.NewTMDBError("failed to decode TMDB response", err)
	}
	if page.Results == nil {
		page.Results = []models.Movie{}
	}

	return &page, nil
}

// String identifies the client in logs without leaking the token.
func (t *TMDB) String() string {
	return fmt.Sprintf("TMDB(%s, token %s)", t.baseURL, t.validator.MaskToken(t.token))
}

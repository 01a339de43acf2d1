package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
)

// PostgresOptions controls connection-pool behaviour.
type PostgresOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration
	ConnTimeout     time.Duration
}

// Postgres implements TrendingStore on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

const createSearchTermsTable = `
CREATE TABLE IF NOT EXISTS search_terms (
	id          TEXT PRIMARY KEY,
	term_key    TEXT NOT NULL UNIQUE,
	search_term TEXT NOT NULL,
	count       INTEGER NOT NULL DEFAULT 1,
	movie_id    INTEGER NOT NULL,
	poster_url  TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createSearchTermsIndex = `
CREATE INDEX IF NOT EXISTS idx_search_terms_rank ON search_terms (count DESC, updated_at DESC)`

const upsertSearchTerm = `
INSERT INTO search_terms (id, term_key, search_term, count, movie_id, poster_url, title, updated_at)
VALUES ($1, $2, $3, 1, $4, $5, $6, now())
ON CONFLICT (term_key) DO UPDATE SET
	count       = search_terms.count + 1,
	search_term = EXCLUDED.search_term,
	movie_id    = EXCLUDED.movie_id,
	poster_url  = EXCLUDED.poster_url,
	title       = EXCLUDED.title,
	updated_at  = now()`

const selectTopSearchTerms = `
SELECT id, search_term, count, movie_id, poster_url, title, updated_at
FROM search_terms
ORDER BY count DESC, updated_at DESC
LIMIT $1`

const selectSearchTerm = `
SELECT id, search_term, count, movie_id, poster_url, title, updated_at
FROM search_terms
WHERE term_key = $1`

// NewPostgres opens a pool, validates connectivity with Ping and ensures the schema.
func NewPostgres(ctx context.Context, dbURL string, opts PostgresOptions) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.ConnTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = opts.ConnTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Postgres{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	for _, stmt := range []string{createSearchTermsTable, createSearchTermsIndex} {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate search_terms: %w", err)
		}
	}
	return nil
}

// Close closes the pool. It always returns nil.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// RecordSearch upserts the term, incrementing its count on conflict.
func (p *Postgres) RecordSearch(ctx context.Context, term string, movie models.Movie) error {
	key, err := validateRecord(term, movie)
	if err != nil {
		return apperrors.NewStoreError("invalid search record", err)
	}

	_, err = p.pool.Exec(ctx, upsertSearchTerm, uuid.NewString(), key, strings.TrimSpace(term), movie.ID, movie.Poster(), movie.Title)
	if err != nil {
		return apperrors.NewStoreError("failed to record search", err)
	}
	return nil
}

// TopSearchTerms returns the highest-count terms.
func (p *Postgres) TopSearchTerms(ctx context.Context, limit int) ([]models.TrendingEntry, error) {
	rows, err := p.pool.Query(ctx, selectTopSearchTerms, limit)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list search terms", err)
	}

	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to scan search terms", err)
	}
	return entries, nil
}

// GetSearchTerm retrieves a single term's record.
func (p *Postgres) GetSearchTerm(ctx context.Context, term string) (*models.TrendingEntry, error) {
	rows, err := p.pool.Query(ctx, selectSearchTerm, NormalizeTerm(term))
	if err != nil {
		return nil, apperrors.NewStoreError("failed to get search term", err)
	}

	entry, err := pgx.CollectOneRow(rows, scanEntry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("failed to scan search term", err)
	}
	return &entry, nil
}

func scanEntry(row pgx.CollectableRow) (models.TrendingEntry, error) {
	var e models.TrendingEntry
	err := row.Scan(&e.ID, &e.SearchTerm, &e.Count, &e.MovieID, &e.PosterURL, &e.Title, &e.UpdatedAt)
	return e, err
}

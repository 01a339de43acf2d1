// Package database provides persistence for the trending search leaderboard.
package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/amaumene/gomovies/internal/models"
)

// TrendingStore records which terms users search for and ranks them.
type TrendingStore interface {
	// TopSearchTerms returns at most limit entries, most searched first
	TopSearchTerms(ctx context.Context, limit int) ([]models.TrendingEntry, error)
	// RecordSearch increments term's count, creating it on first use, and
	// remembers movie as the term's representative result
	RecordSearch(ctx context.Context, term string, movie models.Movie) error
	// GetSearchTerm looks up a single term; returns errors.ErrNotFound when absent
	GetSearchTerm(ctx context.Context, term string) (*models.TrendingEntry, error)
	// Close closes the database connection
	Close() error
}

// NormalizeTerm is the key under which a term is counted. Terms differing
// only by case or surrounding whitespace share a record.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.Join(strings.Fields(term), " "))
}

func validateRecord(term string, movie models.Movie) (string, error) {
	key := NormalizeTerm(term)
	if key == "" {
		return "", fmt.Errorf("empty search term")
	}
	if movie.ID == 0 {
		return "", fmt.Errorf("representative movie has no id")
	}
	return key, nil
}

// rankEntries orders entries by count, then by most recent update.
func rankEntries(entries []models.TrendingEntry, limit int) []models.TrendingEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Open returns the store selected by backend ("bolt" or "postgres").
func Open(ctx context.Context, backend, boltPath, postgresURL string) (TrendingStore, error) {
	switch backend {
	case "", "bolt":
		return NewBolt(boltPath)
	case "postgres":
		return NewPostgres(ctx, postgresURL, PostgresOptions{
			MaxConns:        4,
			MaxConnIdleTime: 5 * time.Minute,
			ConnTimeout:     5 * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
)

const (
	// Default database file permissions
	dbFileMode = 0600
	dbDirMode  = 0755

	// Default database filename
	defaultDBFile = "data.db"

	// How long to wait for the file lock before giving up
	openTimeout = 2 * time.Second
)

var searchTermsBucket = []byte("search_terms")

// BoltDB implements TrendingStore using an embedded bbolt file.
type BoltDB struct {
	db  *bolt.DB
	now func() time.Time
}

// boltSearchTerm is the JSON document stored per normalized term.
type boltSearchTerm struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"search_term"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movie_id"`
	PosterURL  string    `json:"poster_url"`
	Title      string    `json:"title"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBolt creates a new BoltDB database instance.
// If dbPath is empty, uses the default database file in current directory.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	// Ensure database directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(searchTermsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltDB{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// RecordSearch increments the counter for term, or creates it with count 1.
func (b *BoltDB) RecordSearch(ctx context.Context, term string, movie models.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := validateRecord(term, movie)
	if err != nil {
		return apperrors.NewStoreError("invalid search record", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(searchTermsBucket)

		var record boltSearchTerm
		if data := bucket.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("failed to decode record %q: %w", key, err)
			}
			record.Count++
		} else {
			record = boltSearchTerm{ID: uuid.NewString(), Count: 1}
		}

		record.SearchTerm = strings.TrimSpace(term)
		record.MovieID = movie.ID
		record.PosterURL = movie.Poster()
		record.Title = movie.Title
		record.UpdatedAt = b.now()

		data, err := json.Marshal(&record)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), data)
	})
	if err != nil {
		return apperrors.NewStoreError("failed to record search", err)
	}
	return nil
}

// TopSearchTerms returns the most searched terms, most recently updated first on ties.
func (b *BoltDB) TopSearchTerms(ctx context.Context, limit int) ([]models.TrendingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []models.TrendingEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(searchTermsBucket).ForEach(func(k, v []byte) error {
			var record boltSearchTerm
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to decode record %q: %w", k, err)
			}
			entries = append(entries, convertToEntry(&record))
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list search terms", err)
	}

	return rankEntries(entries, limit), nil
}

// GetSearchTerm retrieves a single term's record.
func (b *BoltDB) GetSearchTerm(ctx context.Context, term string) (*models.TrendingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *boltSearchTerm
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(searchTermsBucket).Get([]byte(NormalizeTerm(term)))
		if data == nil {
			return nil
		}
		record = &boltSearchTerm{}
		return json.Unmarshal(data, record)
	})
	if err != nil {
		return nil, apperrors.NewStoreError("failed to get search term", err)
	}
	if record == nil {
		return nil, apperrors.ErrNotFound
	}

	entry := convertToEntry(record)
	return &entry, nil
}

// convertToEntry converts the stored document to a TrendingEntry.
func convertToEntry(record *boltSearchTerm) models.TrendingEntry {
	return models.TrendingEntry{
		ID:         record.ID,
		SearchTerm: record.SearchTerm,
		Count:      record.Count,
		MovieID:    record.MovieID,
		PosterURL:  record.PosterURL,
		Title:      record.Title,
		UpdatedAt:  record.UpdatedAt,
	}
}

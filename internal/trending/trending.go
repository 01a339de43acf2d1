// Package trending loads the search leaderboard once at startup.
package trending

import (
	"context"
	"slices"
	"sync"

	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/pkg/logger"
)

// Source supplies the ranked search terms.
type Source interface {
	TopSearchTerms(ctx context.Context, limit int) ([]models.TrendingEntry, error)
}

// Loader fetches the leaderboard a single time. A failed load is logged
// and leaves the leaderboard empty; it is not retried.
type Loader struct {
	source Source
	limit  int
	logger logger.Logger

	once    sync.Once
	mu      sync.RWMutex
	entries []models.TrendingEntry
	loaded  bool
}

func NewLoader(source Source, limit int, log logger.Logger) *Loader {
	return &Loader{source: source, limit: limit, logger: log}
}

// Load queries the source on the first call only.
func (l *Loader) Load(ctx context.Context) {
	l.once.Do(func() {
		entries, err := l.source.TopSearchTerms(ctx, l.limit)
		if err != nil {
			l.logger.Errorf("[Trending] failed to load trending searches: %v", err)
			entries = nil
		}
		if len(entries) > l.limit {
			entries = entries[:l.limit]
		}

		l.mu.Lock()
		l.entries = entries
		l.loaded = err == nil
		l.mu.Unlock()

		l.logger.Infof("[Trending] loaded %d trending searches", len(entries))
	})
}

// Entries returns a copy of the loaded leaderboard, empty if Load has not
// run or failed.
func (l *Loader) Entries() []models.TrendingEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Loaded reports whether Load ran and succeeded.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

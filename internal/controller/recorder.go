package controller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/pkg/logger"
)

// SearchRecorder persists that term was searched and which movie topped it.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, term string, movie models.Movie) error
}

// AsyncRecorder runs RecordSearch calls in the background. Failures are
// logged and never returned to the caller. Writes beyond the concurrency
// limit queue in the background; the caller never waits for a slot.
type AsyncRecorder struct {
	store   SearchRecorder
	logger  logger.Logger
	timeout time.Duration
	group   errgroup.Group
	queued  sync.WaitGroup
}

// NewAsyncRecorder bounds concurrent writes to limit. A nil store makes
// Record a no-op.
func NewAsyncRecorder(store SearchRecorder, log logger.Logger, limit int) *AsyncRecorder {
	r := &AsyncRecorder{
		store:   store,
		logger:  log,
		timeout: constants.StoreTimeout,
	}
	if limit > 0 {
		r.group.SetLimit(limit)
	}
	return r
}

// Record schedules the write and returns without waiting for it.
func (r *AsyncRecorder) Record(term string, movie models.Movie) {
	if r == nil || r.store == nil {
		return
	}
	task := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.store.RecordSearch(ctx, term, movie); err != nil {
			r.logger.Errorf("[Recorder] failed to record search %q: %v", term, err)
			return nil
		}
		r.logger.Debugf("[Recorder] recorded search %q -> %d", term, movie.ID)
		return nil
	}

	if r.group.TryGo(task) {
		return
	}

	// limit reached: wait for a slot off the caller's goroutine
	r.queued.Add(1)
	go func() {
		defer r.queued.Done()
		r.group.Go(task)
	}()
}

// Wait blocks until every scheduled write has finished.
func (r *AsyncRecorder) Wait() {
	if r == nil {
		return
	}
	r.queued.Wait()
	_ = r.group.Wait()
}

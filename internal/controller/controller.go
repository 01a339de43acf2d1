// Package controller owns the movie query state: it debounces search input,
// fetches pages from the metadata API, merges them, and records searches.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/amaumene/gomovies/internal/constants"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/internal/models"
	"github.com/amaumene/gomovies/pkg/logger"
)

// PageFetcher returns one page of movies: discover for an empty query,
// search otherwise.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page int) (*models.MoviePage, error)
}

// Options configures a Controller.
type Options struct {
	// DebounceDelay is the quiet period after the last SetInput. Zero
	// applies input immediately.
	DebounceDelay time.Duration
	// RecordConcurrency bounds background search-term writes.
	RecordConcurrency int
	Logger            logger.Logger
}

// DefaultOptions uses the standard one-second debounce.
func DefaultOptions() Options {
	return Options{
		DebounceDelay:     constants.DefaultDebounceDelay,
		RecordConcurrency: 2,
	}
}

// Controller is safe for concurrent use. Every fetch carries a generation
// number; a new term cancels the in-flight request and any response from
// an older generation is dropped, so the last issued request wins.
type Controller struct {
	fetcher  PageFetcher
	recorder *AsyncRecorder
	debounce *Debouncer
	logger   logger.Logger

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	closed bool

	mu      sync.Mutex
	state   State
	gen     uint64
	cancel  context.CancelFunc
	subs    map[int]chan State
	nextSub int
}

// New creates a controller. recorder may be nil, in which case searches
// are not recorded.
func New(fetcher PageFetcher, recorder SearchRecorder, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logger.New()
	}

	ctx, stop := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:  fetcher,
		recorder: NewAsyncRecorder(recorder, opts.Logger, opts.RecordConcurrency),
		logger:   opts.Logger,
		ctx:      ctx,
		stop:     stop,
		state:    State{Page: 1},
		subs:     make(map[int]chan State),
	}
	c.debounce = NewDebouncer(opts.DebounceDelay, c.onDebounced)
	return c
}

// Start loads the first page for the current (initially empty) term.
func (c *Controller) Start() {
	c.mu.Lock()
	term := c.state.Term
	c.mu.Unlock()
	c.Submit(term)
}

// SetInput records raw input. The term used for fetching follows it once
// input has been quiet for the debounce delay.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Input = text
	c.publishLocked()
	c.mu.Unlock()

	c.debounce.Trigger(text)
}

// Submit bypasses the debounce: term becomes current, pagination resets
// and page 1 is fetched even if term did not change.
func (c *Controller) Submit(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Input = term
	c.setTermLocked(term)
}

func (c *Controller) onDebounced(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if term == c.state.Term && c.gen > 0 {
		// unchanged term: nothing to fetch, but wake WaitIdle callers
		c.publishLocked()
		return
	}
	c.setTermLocked(term)
}

func (c *Controller) setTermLocked(term string) {
	c.state.Term = term
	c.state.Page = 1
	c.fetchLocked(term, 1)
}

// LoadMore fetches the next page of the current term. It reports false,
// doing nothing, when a fetch is in flight or no further page exists.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Loading || !c.state.CanLoadMore() {
		return false
	}
	c.state.Page++
	c.fetchLocked(c.state.Term, c.state.Page)
	return true
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe returns a channel receiving every state change, latest first:
// a slow reader skips intermediate states. The channel is closed by the
// returned cancel func or by Close.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.state.clone()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

// WaitIdle blocks until no fetch is in flight and no input is waiting on
// the debounce, then returns the state.
func (c *Controller) WaitIdle(ctx context.Context) (State, error) {
	updates, cancel := c.Subscribe()
	defer cancel()

	for {
		select {
		case _, ok := <-updates:
			current := c.State()
			if !ok {
				return current, nil
			}
			if !current.Loading && !c.debounce.Pending() {
				return current, nil
			}
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
}

// Close cancels in-flight work, waits for pending search recordings and
// closes every subscription. It is safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.debounce.Stop()
	c.stop()
	c.wg.Wait()
	c.recorder.Wait()

	c.mu.Lock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()
}

func (c *Controller) fetchLocked(term string, page int) {
	c.gen++
	gen := c.gen

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	c.state.Loading = true
	c.publishLocked()

	c.wg.Add(1)
	go c.runFetch(ctx, cancel, gen, term, page)
}

func (c *Controller) runFetch(ctx context.Context, cancel context.CancelFunc, gen uint64, term string, page int) {
	defer c.wg.Done()
	defer cancel()

	resp, err := c.fetcher.FetchPage(ctx, term, page)

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		c.logger.Debugf("[Controller] discarding superseded response for %q page %d", term, page)
		return
	}
	c.cancel = nil

	if err != nil {
		c.logger.Errorf("[Controller] error fetching movies for %q page %d (status %d): %v", term, page, apperrors.StatusCode(err), err)
	}

	c.state = Apply(c.state, page, resp, err)
	c.state.Loading = false
	c.publishLocked()
	top := TopResult(term, resp, err)
	c.mu.Unlock()

	if top != nil {
		c.recorder.Record(term, *top)
	}
}

func (c *Controller) publishLocked() {
	for _, ch := range c.subs {
		s := c.state.clone()
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

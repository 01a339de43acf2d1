package services

import (
	"context"
	"sync"
	"time"

	"github.com/amaumene/gomovies/internal/constants"
	"github.com/amaumene/gomovies/pkg/logger"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	CleanExpired() int
}

// CleanupService periodically sweeps expired TMDB pages and idle sessions.
type CleanupService struct {
	sweepers map[string]Sweeper
	logger   logger.Logger
	interval time.Duration
	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(log logger.Logger) *CleanupService {
	if log == nil {
		log = logger.New()
	}
	return &CleanupService{
		sweepers: make(map[string]Sweeper),
		logger:   log,
		interval: constants.SessionSweepInterval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Register adds a named sweeper. It must be called before Start.
func (c *CleanupService) Register(name string, s Sweeper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepers[name] = s
}

// SetInterval sets how often cleanup runs
func (c *CleanupService) SetInterval(duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if duration > 0 {
		c.interval = duration
	}
}

// Start begins the cleanup service
func (c *CleanupService) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	interval := c.interval
	c.mu.Unlock()

	c.logger.Infof("[Cleanup] starting cleanup service with interval: %v", interval)

	go c.cleanupLoop(ctx, interval)

	return nil
}

// Stop stops the cleanup service and waits for the loop to exit.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopChan)
	c.mu.Unlock()

	<-c.done
	c.logger.Infof("[Cleanup] cleanup service stopped")
}

func (c *CleanupService) cleanupLoop(ctx context.Context, interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.performCleanup()
		}
	}
}

func (c *CleanupService) performCleanup() {
	removed := c.sweepAll()
	total := 0
	for name, n := range removed {
		if n > 0 {
			c.logger.Debugf("[Cleanup] %s: removed %d expired entries", name, n)
		}
		total += n
	}
	if total > 0 {
		c.logger.Infof("[Cleanup] cleanup completed: %d entries removed", total)
	}
}

// CleanupNow performs immediate cleanup and returns the removed count per sweeper.
func (c *CleanupService) CleanupNow() map[string]int {
	return c.sweepAll()
}

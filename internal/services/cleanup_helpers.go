package services

import "sync"

func (c *CleanupService) snapshot() map[string]Sweeper {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]Sweeper, len(c.sweepers))
	for name, s := range c.sweepers {
		out[name] = s
	}
	return out
}

// sweepAll runs every sweeper concurrently. Session sweeps close
// controllers, which can wait on in-flight fetches.
func (c *CleanupService) sweepAll() map[string]int {
	sweepers := c.snapshot()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		removed = make(map[string]int, len(sweepers))
	)
	for name, s := range sweepers {
		wg.Add(1)
		go func(name string, s Sweeper) {
			defer wg.Done()
			n := s.CleanExpired()
			mu.Lock()
			removed[name] = n
			mu.Unlock()
		}(name, s)
	}
	wg.Wait()
	return removed
}

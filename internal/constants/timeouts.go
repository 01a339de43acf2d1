// Package constants defines timeout values used throughout the application.
package constants

import "time"

// Timeout constants for various operations
const (
	// Quiet period after the last keystroke before a search fires
	DefaultDebounceDelay = 1000 * time.Millisecond

	// HTTP client timeout for TMDB calls
	RequestTimeout = 10 * time.Second

	// Budget for a single trending store read or write
	StoreTimeout = 5 * time.Second

	// Sessions idle longer than this are evicted
	DefaultSessionTTL = 30 * time.Minute

	// Interval between expired session sweeps
	SessionSweepInterval = time.Minute

	// Graceful shutdown budget for the HTTP server
	ShutdownTimeout = 10 * time.Second

	// WebSocket write deadline and ping period
	WSWriteTimeout = 5 * time.Second
	WSPingInterval = 30 * time.Second
)

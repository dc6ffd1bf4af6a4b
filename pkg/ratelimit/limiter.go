package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for request pacing
type Limiter interface {
	// Allow reports whether a request may proceed right now
	Allow() bool
	// Wait blocks until the limiter admits another request
	Wait()
	// Reset clears the limiter state
	Reset()
}

// FixedInterval enforces a minimum delay between consecutive requests. This
// matches the archive provider's expectation of a fixed per-request pause
// rather than a burst budget.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewFixedInterval creates a limiter that admits one request per interval
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

// Allow reports whether the interval has elapsed since the last admitted
// request, admitting the request if so
func (f *FixedInterval) Allow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if f.last.IsZero() || now.Sub(f.last) >= f.interval {
		f.last = now
		return true
	}
	return false
}

// Wait blocks until the interval has elapsed, then admits the request
func (f *FixedInterval) Wait() {
	for {
		f.mu.Lock()
		now := time.Now()
		if f.last.IsZero() || now.Sub(f.last) >= f.interval {
			f.last = now
			f.mu.Unlock()
			return
		}
		remaining := f.interval - now.Sub(f.last)
		f.mu.Unlock()

		time.Sleep(remaining)
	}
}

// Reset forgets the last admitted request so the next call proceeds immediately
func (f *FixedInterval) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = time.Time{}
}

package retry

import (
	"context"
	"math"
	"time"
)

// BackoffStrategy maps a retry attempt number to a wait duration. Strategies
// are pure so policy can be tested without real delays.
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Multiplier each attempt, capped at MaxDelay
type ExponentialBackoff struct {
	// BaseDelay is the delay at attempt 0
	BaseDelay time.Duration
	// MaxDelay caps the computed delay
	MaxDelay time.Duration
	// Multiplier is the factor by which delay increases per attempt
	Multiplier float64
}

// NextDelay computes min(BaseDelay * Multiplier^attempt, MaxDelay)
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt))
	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	return time.Duration(delay)
}

// NewThrottleBackoff returns the ladder applied while the provider is rate
// limiting: 5s, 10s, 20s, 40s, then capped at 60s. Attempts are uncapped; the
// provider is expected to eventually admit the request.
func NewThrottleBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  5 * time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.0,
	}
}

// NewTransportBackoff returns the ladder applied on transport and server
// errors: 4s, 8s, 16s, then capped at 30s, with a bounded attempt count.
func NewTransportBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2.0,
	}
}

// SleepFunc blocks for the given duration. The archive client takes one so
// tests can record requested delays instead of sleeping.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Wait blocks for the duration or until the context is cancelled
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

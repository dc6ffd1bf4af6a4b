package arcticshift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apierrors "wsbscraper/pkg/errors"
	"wsbscraper/pkg/logger"
	"wsbscraper/pkg/retry"
)

// ErrRetriesExhausted signals that a window could not be fetched within the
// transport retry budget. The caller decides whether to treat the window as
// empty; the distinction from true end-of-data matters for gap reporting.
var ErrRetriesExhausted = errors.New("retries exhausted fetching window")

// Options configures a Client
type Options struct {
	BaseURL    string
	Subreddit  string
	PageSize   int
	UserAgent  string
	MaxRetries int
	Timeout    time.Duration
}

// Client fetches comment batches from the Arctic Shift API with retry.
//
// Two separate ladders apply: HTTP 429 backs off on the throttle ladder with
// an uncapped attempt counter that only increments while throttled; every
// other transport or server error backs off on the transport ladder and gives
// up after MaxRetries attempts.
type Client struct {
	httpClient *http.Client
	opts       Options

	throttleBackoff  retry.BackoffStrategy
	transportBackoff retry.BackoffStrategy
	sleep            retry.SleepFunc

	logger logger.Logger
}

// NewClient creates a new archive API client
func NewClient(opts Options, log logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient:       &http.Client{Timeout: opts.Timeout},
		opts:             opts,
		throttleBackoff:  retry.NewThrottleBackoff(),
		transportBackoff: retry.NewTransportBackoff(),
		sleep:            retry.Wait,
		logger:           log,
	}
}

// SetSleep replaces the blocking sleep used between retries
func (c *Client) SetSleep(sleep retry.SleepFunc) {
	c.sleep = sleep
}

// FetchComments fetches one page of comments for the window (after, before).
// Records come back ordered by ascending created_utc. On retry exhaustion it
// returns ErrRetriesExhausted; context cancellation and non-retryable API
// errors (unparseable payloads, client errors) are returned as-is.
func (c *Client) FetchComments(ctx context.Context, after, before int64) ([]RawComment, error) {
	url := SearchURL(c.opts.BaseURL, c.opts.Subreddit, after, before, c.opts.PageSize)

	throttleAttempts := 0
	transportAttempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, apiErr := c.fetchOnce(ctx, url)
		if apiErr == nil {
			return batch, nil
		}

		if !apierrors.IsRetryable(apiErr.Type) {
			// Unparseable payloads and client errors will not improve on retry
			return nil, apiErr
		}

		if apiErr.Type == apierrors.ErrorTypeRateLimit {
			delay := c.throttleBackoff.NextDelay(throttleAttempts)
			throttleAttempts++
			c.logger.WarnWithFields("rate limited, backing off", map[string]interface{}{
				"attempt": throttleAttempts,
				"wait":    delay,
			})
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		transportAttempts++
		if transportAttempts >= c.opts.MaxRetries {
			c.logger.ErrorWithFields("max retries exceeded for window", map[string]interface{}{
				"after":    after,
				"before":   before,
				"attempts": transportAttempts,
				"error":    apiErr.Error(),
			})
			return nil, fmt.Errorf("window (%d, %d): %w", after, before, ErrRetriesExhausted)
		}

		delay := c.transportBackoff.NextDelay(transportAttempts)
		c.logger.WarnWithFields("request failed, retrying", map[string]interface{}{
			"attempt":     transportAttempts,
			"max_retries": c.opts.MaxRetries,
			"wait":        delay,
			"error":       apiErr.Error(),
		})
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// fetchOnce performs a single request attempt
func (c *Client) fetchOnce(ctx context.Context, url string) ([]RawComment, *apierrors.Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apierrors.Error{
			Type:    apierrors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugWithFields("request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, apierrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, apierrors.NewHTTPError(resp.StatusCode)
	}

	var parsed SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &apierrors.Error{
			Type:    apierrors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to decode response: %v", err),
			Code:    resp.StatusCode,
		}
	}

	c.logger.DebugWithFields("fetched batch", map[string]interface{}{
		"url":      url,
		"records":  len(parsed.Data),
		"duration": time.Since(start),
	})

	return parsed.Data, nil
}

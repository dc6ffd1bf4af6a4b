// Package arcticshift implements a client for the Arctic Shift API, a
// community-maintained Pushshift mirror serving historical Reddit data.
//
// The client fetches comments for a subreddit in ascending created_utc order,
// one time window at a time. Failures are retried with two distinct backoff
// ladders: HTTP 429 responses wait on the throttle ladder (5s doubling, 60s
// cap) with no attempt limit, while transport and server errors wait on the
// transport ladder (doubling from 4s, 30s cap) and give up after a bounded
// number of attempts. A window given up on is reported via
// ErrRetriesExhausted so the caller can distinguish it from a genuinely empty
// window.
//
// API docs: https://arctic-shift.photon-reddit.com/api/docs
package arcticshift

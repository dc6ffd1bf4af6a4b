package arcticshift

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the public Arctic Shift instance
	DefaultBaseURL = "https://arctic-shift.photon-reddit.com"

	// SearchEndpoint is the comment search endpoint
	SearchEndpoint = "/api/comments/search"

	// MaxPageSize is the largest page the API serves per request
	MaxPageSize = 100

	// sortField and sortOrder pin the ascending created_utc ordering the
	// pagination cursor depends on
	sortField = "created_utc"
	sortOrder = "asc"
)

// SearchURL constructs the comment search URL for one time window.
// after is exclusive, before is the fixed upper bound for the run.
func SearchURL(baseURL, subreddit string, after, before int64, limit int) string {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	params := url.Values{}
	params.Set("subreddit", subreddit)
	params.Set("after", strconv.FormatInt(after, 10))
	params.Set("before", strconv.FormatInt(before, 10))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", sortOrder)
	params.Set("sort_type", sortField)

	return fmt.Sprintf("%s%s?%s", baseURL, SearchEndpoint, params.Encode())
}

package models

import (
	"fmt"
	"time"

	"wsbscraper/pkg/arcticshift"
)

// Body values that mark a comment as carrying no content. Such records are
// dropped before they ever reach the store.
const (
	DeletedBody = "[deleted]"
	RemovedBody = "[removed]"

	// DeletedAuthor is the author recorded when the payload carries none
	DeletedAuthor = "[deleted]"

	// DefaultScore is the neutral score recorded when the payload carries none
	DefaultScore int64 = 1
)

// Comment is the unit of ingestion. Once written it is never mutated.
type Comment struct {
	ID         string
	Body       string
	Author     string
	Score      int64
	CreatedUTC int64
	// Date is the calendar date of CreatedUTC, always computed in UTC so it
	// is deterministic across hosts
	Date      string
	ParentID  string
	Permalink string
	Subreddit string
}

// EpochDate formats epoch seconds as a YYYY-MM-DD date in UTC
func EpochDate(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format("2006-01-02")
}

// IsExcludedBody reports whether a body value marks the comment as deleted,
// removed, or empty
func IsExcludedBody(body string) bool {
	switch body {
	case "", DeletedBody, RemovedBody:
		return true
	}
	return false
}

// FromRaw maps an API record to a Comment, applying defaults for optional
// fields. A record without an id fails closed: the id is the unique key and
// nothing sensible can be stored without it.
func FromRaw(raw arcticshift.RawComment, defaultSubreddit string) (Comment, error) {
	if raw.ID == "" {
		return Comment{}, fmt.Errorf("comment record missing id (created_utc=%d)", raw.CreatedUTC)
	}

	author := raw.Author
	if author == "" {
		author = DeletedAuthor
	}

	score := DefaultScore
	if raw.Score != nil {
		score = *raw.Score
	}

	subreddit := raw.Subreddit
	if subreddit == "" {
		subreddit = defaultSubreddit
	}

	return Comment{
		ID:         raw.ID,
		Body:       raw.Body,
		Author:     author,
		Score:      score,
		CreatedUTC: raw.CreatedUTC,
		Date:       EpochDate(raw.CreatedUTC),
		ParentID:   raw.ParentID,
		Permalink:  raw.Permalink,
		Subreddit:  subreddit,
	}, nil
}

// MapBatch filters excluded bodies and maps the remaining records. Any record
// missing its id rejects the whole batch.
func MapBatch(batch []arcticshift.RawComment, defaultSubreddit string) ([]Comment, error) {
	comments := make([]Comment, 0, len(batch))
	for _, raw := range batch {
		if IsExcludedBody(raw.Body) {
			continue
		}
		c, err := FromRaw(raw, defaultSubreddit)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

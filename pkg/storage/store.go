package storage

import "wsbscraper/pkg/models"

// Store is the durable sink for ingested comments. Insert is idempotent on
// the comment id; the store doubles as the resume checkpoint via
// LatestIngestedTime, so no separate checkpoint file exists.
type Store interface {
	// InsertBatch writes comments, silently skipping ids already present.
	// Returns the number of rows actually inserted.
	InsertBatch(comments []models.Comment) (int64, error)

	// LatestIngestedTime returns the highest created_utc persisted so far.
	// ok is false when the store is empty.
	LatestIngestedTime() (epoch int64, ok bool, err error)

	// Count returns the total number of stored comments
	Count() (int64, error)

	// DateRange returns the minimum and maximum derived date, empty strings
	// when the store is empty
	DateRange() (minDate, maxDate string, err error)

	// RecordRun appends one run-metadata row
	RecordRun(run RunRecord) error

	// Flush commits buffered writes
	Flush() error

	// Close flushes and releases the store
	Close() error
}

// RunRecord describes one completed (or aborted) ingestion run
type RunRecord struct {
	StartDate string
	EndDate   string
	Subreddit string
	Fetched   int64
	Inserted  int64
	Status    string
}

package scraper

import (
	"context"
	"errors"
	"fmt"

	"wsbscraper/pkg/arcticshift"
	"wsbscraper/pkg/config"
	"wsbscraper/pkg/logger"
	"wsbscraper/pkg/models"
	"wsbscraper/pkg/ratelimit"
	"wsbscraper/pkg/storage"
)

// TerminationReason records why an ingestion run stopped
type TerminationReason string

const (
	// ReasonEndBoundary means the cursor reached the configured end date
	ReasonEndBoundary TerminationReason = "end boundary reached"
	// ReasonSourceExhausted means the API returned no more records for the window
	ReasonSourceExhausted TerminationReason = "source exhausted"
	// ReasonRetriesExhausted means a window repeatedly failed and was given up
	// on; records in that window may be missing
	ReasonRetriesExhausted TerminationReason = "retries exhausted"
	// ReasonAborted means the run stopped on an unrecoverable error or
	// cancellation
	ReasonAborted TerminationReason = "aborted"
)

// Summary reports the outcome of one ingestion run
type Summary struct {
	Batches     int64
	Fetched     int64
	Inserted    int64
	TotalStored int64
	MinDate     string
	MaxDate     string
	Reason      TerminationReason
}

// Scraper orchestrates the ingestion of historical comments: resume position
// from the store, paginate the archive API, filter and map records, insert
// idempotently, and commit periodically.
type Scraper struct {
	client  ArchiveClient
	store   storage.Store
	limiter ratelimit.Limiter
	cfg     *config.Config
	logger  logger.Logger
}

// New creates a Scraper from its collaborators
func New(cfg *config.Config, client ArchiveClient, store storage.Store, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		client:  client,
		store:   store,
		limiter: ratelimit.NewFixedInterval(cfg.RateLimit.RequestDelay),
		cfg:     cfg,
		logger:  log,
	}
}

// Run executes the ingestion loop until the end boundary is reached, the
// source is exhausted, or an unrecoverable error occurs. A Summary is
// returned in every case; err is non-nil only for unrecoverable failures.
func (s *Scraper) Run(ctx context.Context) (*Summary, error) {
	start, err := s.cfg.StartTime()
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := s.cfg.EndTime()
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	startEpoch := start.Unix()
	endEpoch := end.Unix()

	cursor, err := s.resumeCursor(startEpoch, endEpoch)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Count()
	if err != nil {
		return nil, err
	}
	s.logger.InfoWithFields("starting ingestion", map[string]interface{}{
		"subreddit": s.cfg.Archive.Subreddit,
		"start":     s.cfg.Scrape.StartDate,
		"end":       s.cfg.Scrape.EndDate,
		"resume_at": models.EpochDate(cursor.Pos()),
		"existing":  existing,
	})

	summary := &Summary{Reason: ReasonEndBoundary}
	var runErr error

	for !cursor.Done() {
		batch, err := s.client.FetchComments(ctx, cursor.Pos(), endEpoch)
		if err != nil {
			if errors.Is(err, arcticshift.ErrRetriesExhausted) {
				// Fail open: treat the window as empty, but make the
				// potential gap visible
				s.logger.WarnWithFields("giving up on window, possible data gap", map[string]interface{}{
					"after":  cursor.Pos(),
					"before": endEpoch,
				})
				summary.Reason = ReasonRetriesExhausted
				break
			}
			summary.Reason = ReasonAborted
			runErr = err
			break
		}

		if len(batch) == 0 {
			s.logger.Info("no more comments returned")
			summary.Reason = ReasonSourceExhausted
			break
		}

		summary.Batches++
		summary.Fetched += int64(len(batch))

		comments, err := models.MapBatch(batch, s.cfg.Archive.Subreddit)
		if err != nil {
			summary.Reason = ReasonAborted
			runErr = fmt.Errorf("rejecting batch: %w", err)
			break
		}

		inserted, err := s.store.InsertBatch(comments)
		if err != nil {
			summary.Reason = ReasonAborted
			runErr = err
			break
		}
		summary.Inserted += inserted

		cursor.Advance(arcticshift.MaxCreated(batch))

		if summary.Batches%int64(s.cfg.Scrape.CheckpointInterval) == 0 {
			if err := s.store.Flush(); err != nil {
				summary.Reason = ReasonAborted
				runErr = err
				break
			}
			s.logger.InfoWithFields("progress", map[string]interface{}{
				"batch":        summary.Batches,
				"fetched":      summary.Fetched,
				"inserted":     summary.Inserted,
				"current_date": models.EpochDate(cursor.Pos()),
			})
		}

		s.limiter.Wait()
	}

	if err := s.finalize(summary); err != nil && runErr == nil {
		runErr = err
	}

	return summary, runErr
}

// resumeCursor positions the cursor at the store's high-water mark when that
// is past the configured start, otherwise at the configured start
func (s *Scraper) resumeCursor(startEpoch, endEpoch int64) (*Cursor, error) {
	maxSeen, ok, err := s.store.LatestIngestedTime()
	if err != nil {
		return nil, err
	}

	after := startEpoch
	if ok && maxSeen > startEpoch {
		s.logger.InfoWithFields("resuming from stored high-water mark", map[string]interface{}{
			"resume_date":  models.EpochDate(maxSeen),
			"resume_epoch": maxSeen,
		})
		after = maxSeen
	}

	return NewCursor(after, endEpoch), nil
}

// finalize records run metadata, commits, and logs the closing summary
func (s *Scraper) finalize(summary *Summary) error {
	if err := s.store.RecordRun(storage.RunRecord{
		StartDate: s.cfg.Scrape.StartDate,
		EndDate:   s.cfg.Scrape.EndDate,
		Subreddit: s.cfg.Archive.Subreddit,
		Fetched:   summary.Fetched,
		Inserted:  summary.Inserted,
		Status:    string(summary.Reason),
	}); err != nil {
		return err
	}

	if err := s.store.Flush(); err != nil {
		return err
	}

	total, err := s.store.Count()
	if err != nil {
		return err
	}
	minDate, maxDate, err := s.store.DateRange()
	if err != nil {
		return err
	}

	summary.TotalStored = total
	summary.MinDate = minDate
	summary.MaxDate = maxDate

	s.logger.InfoWithFields("ingestion finished", map[string]interface{}{
		"reason":       string(summary.Reason),
		"total_stored": total,
		"min_date":     minDate,
		"max_date":     maxDate,
		"inserted":     summary.Inserted,
		"fetched":      summary.Fetched,
	})

	return nil
}

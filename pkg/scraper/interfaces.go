package scraper

import (
	"context"

	"wsbscraper/pkg/arcticshift"
)

// ArchiveClient defines the archive API operations the ingestion loop needs
type ArchiveClient interface {
	// FetchComments fetches one page of comments for the window (after, before)
	FetchComments(ctx context.Context, after, before int64) ([]arcticshift.RawComment, error)
}

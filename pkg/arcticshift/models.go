package arcticshift

// SearchResponse is the top-level response of the comment search endpoint
type SearchResponse struct {
	Data []RawComment `json:"data"`
}

// RawComment is a comment as returned by the archive API. Optional fields may
// be absent from the payload; Score is a pointer so a missing score can be
// told apart from a genuine zero.
type RawComment struct {
	ID         string `json:"id"`
	Body       string `json:"body"`
	Author     string `json:"author"`
	Score      *int64 `json:"score"`
	CreatedUTC int64  `json:"created_utc"`
	ParentID   string `json:"parent_id"`
	Permalink  string `json:"permalink"`
	Subreddit  string `json:"subreddit"`
}

// MaxCreated returns the highest created_utc over a batch, 0 for an empty batch.
// The cursor advances on the raw batch, before any content filtering.
func MaxCreated(batch []RawComment) int64 {
	var max int64
	for _, c := range batch {
		if c.CreatedUTC > max {
			max = c.CreatedUTC
		}
	}
	return max
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbscraper/pkg/arcticshift"
)

func intPtr(v int64) *int64 { return &v }

func TestEpochDateIsUTC(t *testing.T) {
	// 2020-12-31 23:59:59 UTC; a host in a western zone would still be on
	// the 31st, an eastern one already on the 1st
	assert.Equal(t, "2020-12-31", EpochDate(1609459199))
	assert.Equal(t, "2021-01-01", EpochDate(1609459200))
}

func TestIsExcludedBody(t *testing.T) {
	assert.True(t, IsExcludedBody(""))
	assert.True(t, IsExcludedBody("[deleted]"))
	assert.True(t, IsExcludedBody("[removed]"))
	assert.False(t, IsExcludedBody("YOLO"))
	assert.False(t, IsExcludedBody("[deleted] but not quite"))
}

func TestFromRawAppliesDefaults(t *testing.T) {
	raw := arcticshift.RawComment{
		ID:         "abc123",
		Body:       "to the moon",
		CreatedUTC: 1609459200,
	}

	c, err := FromRaw(raw, "wallstreetbets")
	require.NoError(t, err)

	assert.Equal(t, "abc123", c.ID)
	assert.Equal(t, "[deleted]", c.Author)
	assert.Equal(t, int64(1), c.Score)
	assert.Equal(t, "2021-01-01", c.Date)
	assert.Equal(t, "wallstreetbets", c.Subreddit)
}

func TestFromRawKeepsZeroScore(t *testing.T) {
	raw := arcticshift.RawComment{
		ID:    "abc123",
		Body:  "downvoted to zero",
		Score: intPtr(0),
	}

	c, err := FromRaw(raw, "wallstreetbets")
	require.NoError(t, err)

	// a present zero score is data, not a missing field
	assert.Equal(t, int64(0), c.Score)
}

func TestFromRawCarriesOptionalFields(t *testing.T) {
	raw := arcticshift.RawComment{
		ID:         "abc123",
		Body:       "diamond hands",
		Author:     "dfv",
		Score:      intPtr(42),
		CreatedUTC: 1609459200,
		ParentID:   "t1_parent",
		Permalink:  "/r/wallstreetbets/comments/abc123",
		Subreddit:  "wallstreetbets",
	}

	c, err := FromRaw(raw, "other")
	require.NoError(t, err)

	assert.Equal(t, "dfv", c.Author)
	assert.Equal(t, int64(42), c.Score)
	assert.Equal(t, "t1_parent", c.ParentID)
	assert.Equal(t, "/r/wallstreetbets/comments/abc123", c.Permalink)
	assert.Equal(t, "wallstreetbets", c.Subreddit)
}

func TestFromRawMissingIDFailsClosed(t *testing.T) {
	_, err := FromRaw(arcticshift.RawComment{Body: "no id"}, "wallstreetbets")
	require.Error(t, err)
}

func TestMapBatchFiltersSentinels(t *testing.T) {
	batch := []arcticshift.RawComment{
		{ID: "a", Body: "real comment", CreatedUTC: 100},
		{ID: "b", Body: "[deleted]", CreatedUTC: 200},
		{ID: "c", Body: "another one", CreatedUTC: 300},
		{ID: "d", Body: "[removed]", CreatedUTC: 400},
		{ID: "e", Body: "", CreatedUTC: 500},
	}

	comments, err := MapBatch(batch, "wallstreetbets")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "a", comments[0].ID)
	assert.Equal(t, "c", comments[1].ID)
}

func TestMapBatchRejectsOnMissingID(t *testing.T) {
	batch := []arcticshift.RawComment{
		{ID: "a", Body: "fine", CreatedUTC: 100},
		{Body: "missing id", CreatedUTC: 200},
	}

	_, err := MapBatch(batch, "wallstreetbets")
	require.Error(t, err)
}

func TestMaxCreated(t *testing.T) {
	batch := []arcticshift.RawComment{
		{ID: "a", CreatedUTC: 300},
		{ID: "b", CreatedUTC: 100},
		{ID: "c", CreatedUTC: 200},
	}

	assert.Equal(t, int64(300), arcticshift.MaxCreated(batch))
	assert.Equal(t, int64(0), arcticshift.MaxCreated(nil))
}

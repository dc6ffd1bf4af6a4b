package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbscraper/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testComment(id string, createdUTC int64) models.Comment {
	return models.Comment{
		ID:         id,
		Body:       "body of " + id,
		Author:     "author",
		Score:      5,
		CreatedUTC: createdUTC,
		Date:       models.EpochDate(createdUTC),
		Subreddit:  "wallstreetbets",
	}
}

func TestInsertBatchReturnsInsertedCount(t *testing.T) {
	store := newTestStore(t)

	n, err := store.InsertBatch([]models.Comment{
		testComment("a", 100),
		testComment("b", 200),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestInsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertBatch([]models.Comment{testComment("a", 100)})
	require.NoError(t, err)

	// same id again: no error, no extra row, no overwrite
	n, err := store.InsertBatch([]models.Comment{
		{ID: "a", Body: "different body", Date: "1970-01-01", CreatedUTC: 999},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// the original row survived
	var body string
	require.NoError(t, store.tx.QueryRow(
		"SELECT body FROM comments WHERE comment_id = ?", "a").Scan(&body))
	assert.Equal(t, "body of a", body)
}

func TestInsertEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	n, err := store.InsertBatch(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLatestIngestedTimeEmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.LatestIngestedTime()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLatestIngestedTime(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertBatch([]models.Comment{
		testComment("a", 100),
		testComment("b", 300),
		testComment("c", 200),
	})
	require.NoError(t, err)

	max, ok, err := store.LatestIngestedTime()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(300), max)
}

func TestDateRange(t *testing.T) {
	store := newTestStore(t)

	minDate, maxDate, err := store.DateRange()
	require.NoError(t, err)
	assert.Empty(t, minDate)
	assert.Empty(t, maxDate)

	_, err = store.InsertBatch([]models.Comment{
		testComment("a", 1606780800), // 2020-12-01
		testComment("b", 1609459200), // 2021-01-01
	})
	require.NoError(t, err)

	minDate, maxDate, err = store.DateRange()
	require.NoError(t, err)
	assert.Equal(t, "2020-12-01", minDate)
	assert.Equal(t, "2021-01-01", maxDate)
}

func TestFlushPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	_, err = store.InsertBatch([]models.Comment{testComment("a", 100)})
	require.NoError(t, err)
	require.NoError(t, store.Flush())

	// store stays usable after a flush
	_, err = store.InsertBatch([]models.Comment{testComment("b", 200)})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	max, ok, err := reopened.LatestIngestedTime()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(200), max)
}

func TestRecordRun(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordRun(RunRecord{
		StartDate: "2020-12-01",
		EndDate:   "2021-03-31",
		Subreddit: "wallstreetbets",
		Fetched:   500,
		Inserted:  480,
		Status:    "end boundary reached",
	}))

	var status string
	var inserted int64
	require.NoError(t, store.tx.QueryRow(
		"SELECT status, n_comments FROM scrape_metadata").Scan(&status, &inserted))
	assert.Equal(t, "end boundary reached", status)
	assert.Equal(t, int64(480), inserted)
}

func TestUnreachablePathFailsAtOpen(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(string([]byte{0}), "nope", "db.sqlite"))
	assert.Error(t, err)
}

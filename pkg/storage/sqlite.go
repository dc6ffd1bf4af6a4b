package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"wsbscraper/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS comments (
	comment_id  TEXT PRIMARY KEY,
	body        TEXT NOT NULL,
	author      TEXT,
	score       INTEGER DEFAULT 0,
	created_utc INTEGER,
	date        TEXT NOT NULL,
	parent_id   TEXT,
	permalink   TEXT,
	subreddit   TEXT
);

CREATE INDEX IF NOT EXISTS idx_comments_created_utc ON comments(created_utc);
CREATE INDEX IF NOT EXISTS idx_comments_date ON comments(date);

CREATE TABLE IF NOT EXISTS scrape_metadata (
	scrape_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	scrape_date TEXT NOT NULL,
	start_date  TEXT,
	end_date    TEXT,
	subreddit   TEXT,
	n_fetched   INTEGER DEFAULT 0,
	n_comments  INTEGER DEFAULT 0,
	status      TEXT
);
`

// SQLiteStore implements Store on a local SQLite file. Writes run inside an
// open transaction that Flush commits, so a checkpoint commit is a real
// durability boundary like the provider-side batch commits it mirrors.
type SQLiteStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. An unreachable path fails here, before any network activity.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database at %s: %w", path, err)
	}

	// Single writer; a connection pool would only serialize on the file lock
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.begin(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) begin() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// InsertBatch writes comments with INSERT OR IGNORE semantics. A duplicate
// comment_id is a no-op, never an error and never an overwrite.
func (s *SQLiteStore) InsertBatch(comments []models.Comment) (int64, error) {
	if len(comments) == 0 {
		return 0, nil
	}

	stmt, err := s.tx.Prepare(`INSERT OR IGNORE INTO comments
		(comment_id, body, author, score, created_utc, date, parent_id, permalink, subreddit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, c := range comments {
		res, err := stmt.Exec(c.ID, c.Body, c.Author, c.Score, c.CreatedUTC,
			c.Date, c.ParentID, c.Permalink, c.Subreddit)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert comment %s: %w", c.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += n
	}

	return inserted, nil
}

// LatestIngestedTime returns the highest created_utc in the store
func (s *SQLiteStore) LatestIngestedTime() (int64, bool, error) {
	var max sql.NullInt64
	if err := s.tx.QueryRow("SELECT MAX(created_utc) FROM comments").Scan(&max); err != nil {
		return 0, false, fmt.Errorf("failed to query max created_utc: %w", err)
	}
	if !max.Valid {
		return 0, false, nil
	}
	return max.Int64, true, nil
}

// Count returns the total number of stored comments
func (s *SQLiteStore) Count() (int64, error) {
	var count int64
	if err := s.tx.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// DateRange returns the minimum and maximum derived date in the store
func (s *SQLiteStore) DateRange() (string, string, error) {
	var minDate, maxDate sql.NullString
	err := s.tx.QueryRow("SELECT MIN(date), MAX(date) FROM comments").Scan(&minDate, &maxDate)
	if err != nil {
		return "", "", fmt.Errorf("failed to query date range: %w", err)
	}
	return minDate.String, maxDate.String, nil
}

// RecordRun appends one run-metadata row
func (s *SQLiteStore) RecordRun(run RunRecord) error {
	_, err := s.tx.Exec(`INSERT INTO scrape_metadata
		(scrape_date, start_date, end_date, subreddit, n_fetched, n_comments, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), run.StartDate, run.EndDate,
		run.Subreddit, run.Fetched, run.Inserted, run.Status)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Flush commits the open transaction and begins a new one
func (s *SQLiteStore) Flush() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return s.begin()
}

// Close commits outstanding writes and closes the database
func (s *SQLiteStore) Close() error {
	if s.tx != nil {
		if err := s.tx.Commit(); err != nil {
			s.db.Close()
			return fmt.Errorf("failed to commit on close: %w", err)
		}
		s.tx = nil
	}
	return s.db.Close()
}

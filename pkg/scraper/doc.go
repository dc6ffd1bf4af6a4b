// Package scraper contains the ingestion loop that ties the archive client,
// the content filter, and the store together.
//
// One run processes a single forward-only cursor over a fixed time window.
// The store is the checkpoint: on startup the loop resumes from the highest
// created_utc already persisted, and inserts are idempotent on the comment
// id, so a crashed or interrupted run can simply be restarted.
package scraper

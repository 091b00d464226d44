package database

import (
	"time"
)

// StatusRepository is the durable ledger of ingested statuses. The ingestion
// loop only calls RecordStatuses and MostRecentID; the materialization loop
// only calls UnpublishedStatuses and MarkPublished. Every mutating call is a
// single transaction, which is the sole concurrency primitive between the
// two loops.
type StatusRepository interface {
	RecordStatuses(statuses []Status) error
	MostRecentID() (int64, error)
	UnpublishedStatuses(limit int) ([]Status, error)
	MarkPublished(username, displayName string, ids []int64, ttl time.Duration) error
}

// AuthorRepository reads the per-author publication checkpoints.
type AuthorRepository interface {
	AllAuthors() ([]Author, error)
	TimeSinceLastPublication() (time.Duration, error)
}

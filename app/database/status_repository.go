package database

import (
	"fmt"
	"strings"
	"time"
)

// StatusStore handles database operations for ingested statuses
type StatusStore struct {
	db  *DB
	now func() time.Time
}

// NewStatusStore creates a new status store
func NewStatusStore(db *DB) *StatusStore {
	return &StatusStore{db: db, now: time.Now}
}

// RecordStatuses inserts statuses into the ledger. Already-known identifiers
// are ignored, so re-submitting an overlapping timeline page is a no-op.
// All inserted rows start unpublished.
func (r *StatusStore) RecordStatuses(statuses []Status) error {
	if len(statuses) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return storeErr("failed to begin insert transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO statuses (id, tweet_json, published_at) VALUES (?, ?, 0)`)
	if err != nil {
		return storeErr("failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, status := range statuses {
		if _, err := stmt.Exec(status.ID, string(status.Payload)); err != nil {
			return storeErr(fmt.Sprintf("failed to insert status %d", status.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("failed to commit insert transaction", err)
	}

	return nil
}

// MostRecentID returns the maximum stored identifier, or 0 if the ledger is
// empty. The ingestion loop uses it as the since_id lower bound.
func (r *StatusStore) MostRecentID() (int64, error) {
	var id int64
	err := r.db.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM statuses`).Scan(&id)
	if err != nil {
		return 0, storeErr("failed to get most recent id", err)
	}
	return id, nil
}

// UnpublishedStatuses returns statuses with an unset published marker,
// oldest first, capped at limit (0 = unbounded). Oldest-first ordering is a
// contract: the caller relies on it for chronological document assembly.
func (r *StatusStore) UnpublishedStatuses(limit int) ([]Status, error) {
	query := `SELECT id, tweet_json, published_at FROM statuses WHERE published_at = 0 ORDER BY id ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, storeErr("failed to get unpublished statuses", err)
	}
	defer rows.Close()

	var statuses []Status
	for rows.Next() {
		var status Status
		var payload string
		if err := rows.Scan(&status.ID, &payload, &status.Published); err != nil {
			return nil, storeErr("failed to scan status row", err)
		}
		status.Payload = []byte(payload)
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating status rows", err)
	}

	return statuses, nil
}

// MarkPublished sets the published marker for the given identifiers, upserts
// the author checkpoint, and purges statuses whose marker is older than the
// retention window. All three run in one transaction so a concurrent reader
// never observes a partial update. No-op on an empty identifier list.
func (r *StatusStore) MarkPublished(username, displayName string, ids []int64, ttl time.Duration) error {
	if len(ids) == 0 {
		return nil
	}

	now := r.now().UTC().Unix()
	cutoff := now - int64(ttl.Seconds())

	tx, err := r.db.Begin()
	if err != nil {
		return storeErr("failed to begin publish transaction", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, now)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err = tx.Exec(`UPDATE statuses SET published_at = ? WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return storeErr("failed to mark statuses published", err)
	}

	_, err = tx.Exec(`
		INSERT INTO authors (username, display_name, published_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			display_name = excluded.display_name,
			published_at = excluded.published_at
	`, NormalizeUsername(username), displayName, now)
	if err != nil {
		return storeErr("failed to upsert author checkpoint", err)
	}

	_, err = tx.Exec(`DELETE FROM statuses WHERE published_at > 0 AND published_at < ?`, cutoff)
	if err != nil {
		return storeErr("failed to purge expired statuses", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("failed to commit publish transaction", err)
	}

	return nil
}

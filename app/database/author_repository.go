package database

import (
	"time"
)

// AuthorStore handles database operations for author checkpoints
type AuthorStore struct {
	db  *DB
	now func() time.Time
}

// NewAuthorStore creates a new author store
func NewAuthorStore(db *DB) *AuthorStore {
	return &AuthorStore{db: db, now: time.Now}
}

// AllAuthors returns every author checkpoint ordered by username.
func (r *AuthorStore) AllAuthors() ([]Author, error) {
	rows, err := r.db.Query(`SELECT username, display_name, published_at FROM authors ORDER BY username`)
	if err != nil {
		return nil, storeErr("failed to get authors", err)
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		var author Author
		var published int64
		if err := rows.Scan(&author.Username, &author.DisplayName, &published); err != nil {
			return nil, storeErr("failed to scan author row", err)
		}
		author.PublishedAt = time.Unix(published, 0).UTC()
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating author rows", err)
	}

	return authors, nil
}

// TimeSinceLastPublication returns how long ago the most recent checkpoint
// was written, for staleness reporting. Returns ErrNoPublications when no
// author has ever been published.
func (r *AuthorStore) TimeSinceLastPublication() (time.Duration, error) {
	var published int64
	err := r.db.QueryRow(`SELECT COALESCE(MAX(published_at), 0) FROM authors`).Scan(&published)
	if err != nil {
		return 0, storeErr("failed to get last publication time", err)
	}

	if published == 0 {
		return 0, ErrNoPublications
	}

	return r.now().UTC().Sub(time.Unix(published, 0).UTC()), nil
}

package database

import (
	"time"

	"golang.org/x/text/cases"
)

// Status is one ingested timeline post. The payload is the full serialized
// upstream JSON; everything the expander needs is embedded in it.
// Published is epoch seconds of publication, 0 while unpublished.
type Status struct {
	ID        int64
	Payload   []byte
	Published int64
}

// Author is the per-author publication checkpoint.
type Author struct {
	Username    string
	DisplayName string
	PublishedAt time.Time
}

var usernameFolder = cases.Fold()

// NormalizeUsername returns the canonical case-folded form of an author
// identity. All author keys stored or looked up go through this.
func NormalizeUsername(username string) string {
	return usernameFolder.String(username)
}

package api

import (
	"time"

	"github.com/antarv/tweetfeed/app/database"
	"github.com/antarv/tweetfeed/app/feed"
)

type Handler struct {
	authorRepo database.AuthorRepository
	documents  *feed.DocumentManager
	index      *feed.IndexBuilder
	version    string
	startedAt  time.Time
}

package feed

import (
	"fmt"

	"github.com/antarv/tweetfeed/app/database"
)

// RSSTimeFormat is the fixed textual format for publication timestamps,
// like "Mon, 30 Sep 2002 01:56:02 UTC".
const RSSTimeFormat = "Mon, 02 Jan 2006 15:04:05 UTC"

func UserURL(username string) string {
	return "https://twitter.com/" + username
}

func TweetURL(username string, id int64) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%d", username, id)
}

// FeedFileName derives the document location from the author identity.
func FeedFileName(username string) string {
	return database.NormalizeUsername(username) + "_rss.xml"
}

func FeedURL(baseURL, username string) string {
	return baseURL + "/feeds/" + FeedFileName(username)
}

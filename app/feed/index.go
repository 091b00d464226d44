package feed

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"

	"github.com/antarv/tweetfeed/app/database"
)

// IndexFileName is the feed index artifact, listing every known author.
const IndexFileName = "feeds.html"

// IndexBuilder regenerates the feed index page from the author checkpoints.
type IndexBuilder struct {
	feedsDir string
	baseURL  string
}

func NewIndexBuilder(feedsDir, baseURL string) *IndexBuilder {
	return &IndexBuilder{feedsDir: feedsDir, baseURL: baseURL}
}

// IndexPath returns the artifact location of the index page.
func (b *IndexBuilder) IndexPath() string {
	return filepath.Join(b.feedsDir, IndexFileName)
}

// Run rebuilds the full index page from the given authors.
func (b *IndexBuilder) Run(authors []database.Author) error {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	buf.WriteString("  <title>Twitter RSS feeds</title>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.WriteString("  <h1>Twitter RSS feeds</h1>\n")
	buf.WriteString("  <table>\n")
	buf.WriteString("    <tr><th>Name</th><th>Twitter</th><th>Feed</th><th>Last updated</th></tr>\n")

	for _, author := range authors {
		timestamp := author.PublishedAt.UTC().Format(RSSTimeFormat)
		fmt.Fprintf(&buf, "    <tr><td>%s</td><td><a href=\"%s\">@%s</a></td><td><a href=\"%s\">%s</a></td><td class=\"rss_update\" data-tstamp=\"%s\">%s</td></tr>\n",
			html.EscapeString(author.DisplayName),
			UserURL(author.Username),
			html.EscapeString(author.Username),
			FeedURL(b.baseURL, author.Username),
			FeedFileName(author.Username),
			timestamp, timestamp)
	}

	buf.WriteString("  </table>\n</body>\n</html>\n")

	return writeFileAtomic(b.feedsDir, b.IndexPath(), buf.String())
}

package feed

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/antarv/tweetfeed/app/database"
)

func TestIndexBuilder(t *testing.T) {
	builder := NewIndexBuilder(t.TempDir(), "https://feeds.example.com")

	authors := []database.Author{
		{
			Username:    "alice",
			DisplayName: "Alice & Co",
			PublishedAt: time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			Username:    "bob",
			DisplayName: "Bob Builder",
			PublishedAt: time.Date(2023, 7, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	if err := builder.Run(authors); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(builder.IndexPath())
	if err != nil {
		t.Fatalf("Failed to read index page: %v", err)
	}
	page := string(data)

	if !strings.Contains(page, "Alice &amp; Co") {
		t.Errorf("Expected escaped display name:\n%s", page)
	}
	if !strings.Contains(page, `<a href="https://twitter.com/alice">@alice</a>`) {
		t.Errorf("Expected profile link:\n%s", page)
	}
	if !strings.Contains(page, `<a href="https://feeds.example.com/feeds/alice_rss.xml">alice_rss.xml</a>`) {
		t.Errorf("Expected feed link:\n%s", page)
	}
	if !strings.Contains(page, `data-tstamp="Mon, 03 Jul 2023 10:00:00 UTC"`) {
		t.Errorf("Expected last publication timestamp:\n%s", page)
	}
	if got := strings.Count(page, "<tr>"); got != 3 {
		t.Errorf("Expected header row plus 2 author rows, got %d", got)
	}
}

func TestIndexBuilderEmpty(t *testing.T) {
	builder := NewIndexBuilder(t.TempDir(), "")

	if err := builder.Run(nil); err != nil {
		t.Fatalf("Expected no error for empty author list, got: %v", err)
	}

	if _, err := os.Stat(builder.IndexPath()); err != nil {
		t.Error("Expected index page written even with no authors")
	}
}

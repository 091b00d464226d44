package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/antarv/tweetfeed/app/timeline"
)

// DocumentManager maintains the per-author bounded feed documents. Each
// upsert fully rebuilds the document: fresh header, new entries prepended,
// oldest existing entries evicted beyond capacity. The rebuild is idempotent
// with respect to re-inserting the same entries after a crash-retry.
type DocumentManager struct {
	feedsDir  string
	maxItems  int
	generator *Generator
	now       func() time.Time
}

func NewDocumentManager(feedsDir string, maxItems int, generator *Generator) *DocumentManager {
	return &DocumentManager{
		feedsDir:  feedsDir,
		maxItems:  maxItems,
		generator: generator,
		now:       time.Now,
	}
}

// DocumentPath returns the deterministic artifact location for an author.
func (m *DocumentManager) DocumentPath(username string) string {
	return filepath.Join(m.feedsDir, FeedFileName(username))
}

// Upsert writes the author's document with the given rendered entries,
// which must already be in newest-first order. Performs no write at all
// when the entry set is empty.
func (m *DocumentManager) Upsert(user timeline.User, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	path := m.DocumentPath(user.ScreenName)

	combined := make([]string, 0, m.maxItems)
	combined = append(combined, entries...)

	if retain := m.maxItems - len(entries); retain > 0 {
		existing, err := m.currentEntries(path)
		if err != nil {
			return err
		}
		if len(existing) > retain {
			existing = existing[:retain]
		}
		combined = append(combined, existing...)
	}

	if len(combined) > m.maxItems {
		combined = combined[:m.maxItems]
	}

	var doc strings.Builder
	doc.WriteString(m.generator.Header(user, m.now()))
	for _, entry := range combined {
		doc.WriteString(entry)
	}
	doc.WriteString("  </channel>\n</rss>\n")

	return writeFileAtomic(m.feedsDir, path, doc.String())
}

// currentEntries returns the entries of the existing document, newest
// first, as raw item blocks. A missing document yields none.
func (m *DocumentManager) currentEntries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read feed document: %w", err)
	}

	parts := strings.Split(string(data), "<item>")
	if len(parts) < 2 {
		return nil, nil
	}

	entries := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		entry := "<item>" + part
		entry = strings.ReplaceAll(entry, "</channel>", "")
		entry = strings.ReplaceAll(entry, "</rss>", "")
		entries = append(entries, strings.TrimRight(entry, " \n")+"\n")
	}

	return entries, nil
}

// writeFileAtomic persists content via a temporary file and rename so a
// concurrent reader never observes a partially written document.
func writeFileAtomic(dir, path, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create feeds directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".feed-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary document: %w", err)
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write document: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close document: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to set document permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace document: %w", err)
	}

	return nil
}

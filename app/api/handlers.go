package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/antarv/tweetfeed/app/database"
	"github.com/antarv/tweetfeed/app/feed"
	"github.com/gin-gonic/gin"
)

func NewHandler(authorRepo database.AuthorRepository, documents *feed.DocumentManager,
	index *feed.IndexBuilder, version string) *Handler {
	return &Handler{
		authorRepo: authorRepo,
		documents:  documents,
		index:      index,
		version:    version,
		startedAt:  time.Now(),
	}
}

// GetFeed serves a materialized feed document straight from disk.
func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")
	if name == "" || strings.ContainsAny(name, "/\\") {
		c.Status(http.StatusBadRequest)
		return
	}

	username, ok := strings.CutSuffix(name, "_rss.xml")
	if !ok || username == "" {
		c.Status(http.StatusNotFound)
		return
	}

	path := h.documents.DocumentPath(username)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.Status(http.StatusNotFound)
			return
		}
		slog.Error("Failed to stat feed document", "name", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.File(path)
}

// GetIndex serves the feed index page listing every known author.
func (h *Handler) GetIndex(c *gin.Context) {
	path := h.index.IndexPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.String(http.StatusOK, "No feeds materialized yet.")
			return
		}
		slog.Error("Failed to stat feed index", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.File(path)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
	}

	if authors, err := h.authorRepo.AllAuthors(); err == nil {
		health["authors"] = len(authors)
	}

	since, err := h.authorRepo.TimeSinceLastPublication()
	switch {
	case errors.Is(err, database.ErrNoPublications):
		health["last_publication"] = nil
	case err != nil:
		slog.Error("Database error", "operation", "last_publication", "error", err)
		c.JSON(http.StatusServiceUnavailable, health)
		return
	default:
		health["last_publication_age"] = since.Truncate(time.Second).String()
	}

	c.JSON(http.StatusOK, health)
}

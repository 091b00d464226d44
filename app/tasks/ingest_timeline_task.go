package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/antarv/tweetfeed/app/database"
	"github.com/antarv/tweetfeed/app/timeline"
)

// IngestTimelineTask pulls the newest page of the home timeline and appends
// every status to the ledger. Statuses already recorded are ignored, so
// overlapping pages are harmless.
type IngestTimelineTask struct {
	Task
	statusRepo database.StatusRepository
	client     *timeline.Client
}

func NewIngestTimelineTask(statusRepo database.StatusRepository, client *timeline.Client) *IngestTimelineTask {
	return &IngestTimelineTask{
		Task:       NewTask(TaskTypeIngestTimeline),
		statusRepo: statusRepo,
		client:     client,
	}
}

func (t *IngestTimelineTask) Execute(ctx context.Context) error {
	sinceID, err := t.statusRepo.MostRecentID()
	if err != nil {
		return fmt.Errorf("resolve cursor: %w", err)
	}

	statuses, err := t.client.HomeTimeline(ctx, sinceID)
	if err != nil {
		var rateLimitErr *timeline.RateLimitError
		if errors.As(err, &rateLimitErr) {
			slog.Warn("Timeline rate limited", "reset", rateLimitErr.Reset)
			return nil
		}
		return fmt.Errorf("fetch timeline: %w", err)
	}

	if len(statuses) == 0 {
		slog.Debug("Timeline up to date", "since_id", sinceID)
		return nil
	}

	if err := t.statusRepo.RecordStatuses(statuses); err != nil {
		return fmt.Errorf("record statuses: %w", err)
	}

	slog.Info("Timeline ingested", "fetched", len(statuses))

	return nil
}

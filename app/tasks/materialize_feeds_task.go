package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/antarv/tweetfeed/app/database"
	"github.com/antarv/tweetfeed/app/feed"
	"github.com/antarv/tweetfeed/app/timeline"
)

// MaterializeFeedsTask drains the ledger backlog in bounded batches and folds
// every unpublished status into its author's feed document. A batch is grouped
// per author so each document is rewritten at most once per pass. Statuses are
// only marked published after their author's document landed on disk, so a
// failed write is retried on the next pass.
type MaterializeFeedsTask struct {
	Task
	statusRepo database.StatusRepository
	authorRepo database.AuthorRepository
	classifier *feed.Classifier
	generator  *feed.Generator
	documents  *feed.DocumentManager
	index      *feed.IndexBuilder
	batchSize  int
	retention  time.Duration
}

func NewMaterializeFeedsTask(
	statusRepo database.StatusRepository,
	authorRepo database.AuthorRepository,
	classifier *feed.Classifier,
	generator *feed.Generator,
	documents *feed.DocumentManager,
	index *feed.IndexBuilder,
	batchSize int,
	retention time.Duration,
) *MaterializeFeedsTask {
	return &MaterializeFeedsTask{
		Task:       NewTask(TaskTypeMaterializeFeeds),
		statusRepo: statusRepo,
		authorRepo: authorRepo,
		classifier: classifier,
		generator:  generator,
		documents:  documents,
		index:      index,
		batchSize:  batchSize,
		retention:  retention,
	}
}

// authorBatch holds one author's slice of a batch, newest tweet first.
type authorBatch struct {
	user   timeline.User
	tweets []*timeline.Tweet
	ids    []int64
}

func (t *MaterializeFeedsTask) Execute(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		statuses, err := t.statusRepo.UnpublishedStatuses(t.batchSize)
		if err != nil {
			return fmt.Errorf("load backlog: %w", err)
		}
		if len(statuses) == 0 {
			return nil
		}

		published, err := t.materializeBatch(statuses)
		if err != nil {
			return err
		}
		if published == 0 {
			// Every author in the batch failed to write. Bail out instead of
			// rereading the same backlog until the context expires.
			return fmt.Errorf("materialize batch: no statuses published")
		}
	}
}

func (t *MaterializeFeedsTask) materializeBatch(statuses []database.Status) (int, error) {
	batches := groupByAuthor(statuses)

	published := 0
	for _, batch := range batches {
		entries := make([]string, 0, len(batch.tweets))
		for _, tweet := range batch.tweets {
			if !t.classifier.IsEligible(tweet) {
				continue
			}
			entries = append(entries, t.generator.BuildItem(tweet))
		}

		if err := t.documents.Upsert(batch.user, entries); err != nil {
			slog.Error("Failed to update feed document", "author", batch.user.ScreenName, "error", err)
			continue
		}

		err := t.statusRepo.MarkPublished(batch.user.ScreenName, batch.user.Name, batch.ids, t.retention)
		if err != nil {
			return published, fmt.Errorf("mark published: %w", err)
		}

		published += len(batch.ids)
		slog.Debug("Feed materialized", "author", batch.user.ScreenName, "statuses", len(batch.ids), "entries", len(entries))
	}

	if published > 0 {
		authors, err := t.authorRepo.AllAuthors()
		if err != nil {
			return published, fmt.Errorf("list authors: %w", err)
		}
		if err := t.index.Run(authors); err != nil {
			return published, fmt.Errorf("rebuild index: %w", err)
		}
	}

	return published, nil
}

// groupByAuthor parses a batch and splits it per author, preserving first-seen
// author order. The batch arrives oldest first; tweets within each group are
// reversed to newest first, the order feed entries are prepended in.
func groupByAuthor(statuses []database.Status) []*authorBatch {
	var batches []*authorBatch
	byAuthor := map[string]*authorBatch{}

	for _, status := range statuses {
		tweet, err := timeline.ParseTweet(status.Payload)
		if err != nil {
			// Payloads are validated on ingest, so this only fires on a
			// corrupted row. Leave it unpublished and keep going.
			slog.Error("Failed to parse stored status", "id", status.ID, "error", err)
			continue
		}

		key := database.NormalizeUsername(tweet.User.ScreenName)
		batch, ok := byAuthor[key]
		if !ok {
			batch = &authorBatch{user: tweet.User}
			byAuthor[key] = batch
			batches = append(batches, batch)
		}
		batch.user = tweet.User
		batch.tweets = append(batch.tweets, tweet)
		batch.ids = append(batch.ids, status.ID)
	}

	for _, batch := range batches {
		slices.Reverse(batch.tweets)
	}

	return batches
}

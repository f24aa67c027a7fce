package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robcarv/news-colletector/internal/config"
	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/textutil"
)

// Collector runs the first pipeline stage: fetch a feed, normalize its
// entries, keep today's unseen items, and checkpoint the batch so the
// synthesis stage can resume after a crash without refetching.
type Collector struct {
	source  ports.FeedSource
	store   ports.BatchStore
	filter  *Filter
	maxNews int
	logger  *slog.Logger
}

func NewCollector(source ports.FeedSource, store ports.BatchStore, filter *Filter, maxNews int, logger *slog.Logger) *Collector {
	return &Collector{
		source:  source,
		store:   store,
		filter:  filter,
		maxNews: maxNews,
		logger:  logger.With(slog.String("component", "collector")),
	}
}

// CollectFeed fetches one configured feed and persists its batch. It
// returns the checkpoint path; an empty batch is still saved so the
// synthesis stage sees a consistent snapshot of the run.
func (c *Collector) CollectFeed(ctx context.Context, feed config.FeedConfig) (domain.FeedBatch, string, error) {
	sourceID := textutil.SourceID(feed.URL)
	log := c.logger.With(slog.String("source", sourceID))

	entries, err := c.source.Fetch(ctx, feed.URL)
	if err != nil {
		return domain.FeedBatch{}, "", fmt.Errorf("fetching %s: %w", feed.URL, err)
	}

	items, incomplete := NormalizeAll(entries)
	kept, skips := c.filter.Apply(items, sourceID, c.maxNews)

	batch := domain.FeedBatch{
		Language: feed.Language,
		Items:    kept,
		SourceID: sourceID,
	}

	path, err := c.store.Save(batch)
	if err != nil {
		return domain.FeedBatch{}, "", fmt.Errorf("saving batch for %s: %w", sourceID, err)
	}

	log.Info("feed collected",
		slog.Int("entries", len(entries)),
		slog.Int("incomplete", incomplete),
		slog.Int("kept", len(kept)),
		slog.Any("skips", skipCounts(skips)),
	)

	return batch, path, nil
}

// skipCounts flattens the skip map into a loggable form with stable
// string keys.
func skipCounts(skips map[domain.SkipReason]int) map[string]int {
	if len(skips) == 0 {
		return nil
	}
	out := make(map[string]int, len(skips))
	for reason, n := range skips {
		out[string(reason)] = n
	}
	return out
}

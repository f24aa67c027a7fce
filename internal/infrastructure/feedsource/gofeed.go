package feedsource

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/robcarv/news-colletector/internal/ports"
)

// GofeedSource fetches and parses RSS/Atom feeds. Parsing is delegated
// entirely to gofeed; this adapter only flattens its item shape into
// RawEntry so the normalizer owns every field fallback.
type GofeedSource struct {
	parser *gofeed.Parser
}

var _ ports.FeedSource = (*GofeedSource)(nil)

// NewGofeedSource wires an HTTP client; a nil client gets a 20 s timeout
// default.
func NewGofeedSource(client *http.Client) *GofeedSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "news-colletector/1.0"
	return &GofeedSource{parser: parser}
}

// Fetch downloads one feed and returns its entries in the feed's native
// order.
func (s *GofeedSource) Fetch(ctx context.Context, feedURL string) ([]ports.RawEntry, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := make([]ports.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry := ports.RawEntry{
			Title:       item.Title,
			Link:        item.Link,
			Summary:     item.Content,
			Description: item.Description,
			FeedTitle:   feed.Title,
		}

		// Published wins over Updated when both are present.
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = item.UpdatedParsed
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

package usecase

import (
	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/textutil"
)

const unknownSource = "Fonte desconhecida"

// Normalize converts one raw feed entry into a canonical NewsItem. An
// entry missing title, link, or publish time is skipped, never an error:
// one bad entry must not abort its batch. The summary is taken from the
// content field with description as fallback, then stripped of markup.
func Normalize(entry ports.RawEntry) (domain.NewsItem, domain.SkipReason) {
	if entry.Title == "" || entry.Link == "" || entry.PublishedAt == nil {
		return domain.NewsItem{}, domain.SkipIncompleteEntry
	}

	summary := entry.Summary
	if summary == "" {
		summary = entry.Description
	}

	source := entry.FeedTitle
	if source == "" {
		source = unknownSource
	}

	published := *entry.PublishedAt
	return domain.NewsItem{
		Title:       textutil.CollapseWhitespace(entry.Title),
		Summary:     textutil.StripHTML(summary),
		Link:        entry.Link,
		Source:      source,
		PublishedAt: &published,
	}, ""
}

// NormalizeAll maps raw entries to items in feed order, dropping the
// entries that do not qualify and reporting how many were skipped.
func NormalizeAll(entries []ports.RawEntry) ([]domain.NewsItem, int) {
	items := make([]domain.NewsItem, 0, len(entries))
	skipped := 0

	for _, entry := range entries {
		item, skip := Normalize(entry)
		if skip != "" {
			skipped++
			continue
		}
		items = append(items, item)
	}

	return items, skipped
}

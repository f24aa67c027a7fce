package usecase

import (
	"os"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
)

// Filter decides which normalized items enter a batch. Freshness is
// evaluated in the configured timezone so a feed publishing in UTC does
// not leak yesterday's items into today's episode.
type Filter struct {
	audioDir string
	loc      *time.Location
	now      func() time.Time
}

func NewFilter(audioDir string, loc *time.Location) *Filter {
	return &Filter{audioDir: audioDir, loc: loc, now: time.Now}
}

// Eligible reports whether an item belongs in today's batch. Items
// without a publish time are excluded rather than guessed at, and items
// whose derived artifact already exists on disk are excluded because a
// previous run narrated them.
func (f *Filter) Eligible(item domain.NewsItem, sourceID string) (bool, domain.SkipReason) {
	if item.Title == "" {
		return false, domain.SkipEmptyTitle
	}
	if item.PublishedAt == nil {
		return false, domain.SkipNoPublishTime
	}

	today := f.now().In(f.loc)
	published := item.PublishedAt.In(f.loc)
	if published.Year() != today.Year() || published.YearDay() != today.YearDay() {
		return false, domain.SkipNotToday
	}

	if _, err := os.Stat(ArtifactPath(f.audioDir, sourceID, item)); err == nil {
		return false, domain.SkipAlreadyRendered
	}

	return true, ""
}

// Apply filters items in order and caps the survivors at maxItems. The
// cap runs after filtering so stale or duplicate entries at the top of a
// feed do not starve fresh ones further down.
func (f *Filter) Apply(items []domain.NewsItem, sourceID string, maxItems int) ([]domain.NewsItem, map[domain.SkipReason]int) {
	skips := make(map[domain.SkipReason]int)
	kept := make([]domain.NewsItem, 0, len(items))

	for _, item := range items {
		ok, reason := f.Eligible(item, sourceID)
		if !ok {
			skips[reason]++
			continue
		}
		if maxItems > 0 && len(kept) == maxItems {
			skips[domain.SkipOverCap]++
			continue
		}
		kept = append(kept, item)
	}

	return kept, skips
}

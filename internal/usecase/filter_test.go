package usecase

import (
	"os"
	"testing"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
)

func newTestFilter(t *testing.T, now time.Time) (*Filter, string) {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	dir := t.TempDir()
	f := NewFilter(dir, loc)
	f.now = func() time.Time { return now }
	return f, dir
}

func itemAt(title string, published time.Time) domain.NewsItem {
	return domain.NewsItem{Title: title, Link: "https://example.com/a", PublishedAt: &published}
}

func TestFilterKeepsOnlyTodayInConfiguredZone(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f, _ := newTestFilter(t, now)

	ok, _ := f.Eligible(itemAt("today", time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)), "src")
	if !ok {
		t.Fatal("item published today was excluded")
	}

	ok, reason := f.Eligible(itemAt("yesterday", time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)), "src")
	if ok || reason != domain.SkipNotToday {
		t.Fatalf("yesterday: ok=%v reason=%q", ok, reason)
	}

	// 01:00 UTC on the 30th is still the evening of the 29th in Sao
	// Paulo.
	ok, reason = f.Eligible(itemAt("utc today local yesterday", time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)), "src")
	if ok || reason != domain.SkipNotToday {
		t.Fatalf("boundary: ok=%v reason=%q", ok, reason)
	}
}

func TestFilterExcludesItemsWithoutPublishTime(t *testing.T) {
	t.Parallel()

	f, _ := newTestFilter(t, time.Now())
	ok, reason := f.Eligible(domain.NewsItem{Title: "no time", Link: "https://x"}, "src")
	if ok || reason != domain.SkipNoPublishTime {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}
}

func TestFilterDeduplicatesByArtifactOnDisk(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f, dir := newTestFilter(t, now)
	item := itemAt("Seen Before", now)

	path := ArtifactPath(dir, "src", item)
	if err := os.WriteFile(path, []byte("riff"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	ok, reason := f.Eligible(item, "src")
	if ok || reason != domain.SkipAlreadyRendered {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}

	// A different source narrating the same title is not a duplicate.
	if ok, _ := f.Eligible(item, "other"); !ok {
		t.Fatal("other source's identical title was excluded")
	}
}

func TestFilterCapsAfterFiltering(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	f, _ := newTestFilter(t, now)

	items := []domain.NewsItem{
		itemAt("stale", now.AddDate(0, 0, -1)),
		itemAt("a", now),
		itemAt("b", now),
		itemAt("c", now),
	}

	kept, skips := f.Apply(items, "src", 2)
	if len(kept) != 2 || kept[0].Title != "a" || kept[1].Title != "b" {
		t.Fatalf("kept = %+v", kept)
	}
	if skips[domain.SkipNotToday] != 1 || skips[domain.SkipOverCap] != 1 {
		t.Fatalf("skips = %+v", skips)
	}
}

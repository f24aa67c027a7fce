package feedsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <link>https://example.com</link>
    <item>
      <title>First story</title>
      <link>https://example.com/1</link>
      <description>&lt;p&gt;First &lt;b&gt;body&lt;/b&gt;&lt;/p&gt;</description>
      <pubDate>Sun, 30 Aug 2026 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second story</title>
      <link>https://example.com/2</link>
      <description>Second body</description>
    </item>
  </channel>
</rss>`

func TestFetchPreservesFeedOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	source := NewGofeedSource(server.Client())

	entries, err := source.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "First story" || entries[1].Title != "Second story" {
		t.Fatalf("order not preserved: %q, %q", entries[0].Title, entries[1].Title)
	}
	if entries[0].FeedTitle != "Example News" {
		t.Fatalf("feed title missing: %q", entries[0].FeedTitle)
	}
	if entries[0].PublishedAt == nil {
		t.Fatal("expected first entry to carry a publish time")
	}
	if entries[1].PublishedAt != nil {
		t.Fatal("expected second entry to have no publish time")
	}
}

func TestFetchBadFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a feed"))
	}))
	defer server.Close()

	source := NewGofeedSource(server.Client())
	if _, err := source.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected parse error")
	}
}

package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	published := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	batch := domain.FeedBatch{
		Language: "pt",
		SourceID: "g1_globo_com",
		Items: []domain.NewsItem{
			{Title: "Primeira", Link: "https://g1/a", Source: "G1", PublishedAt: &published},
			{Title: "Segunda", Link: "https://g1/b", Source: "G1", PublishedAt: &published},
		},
	}

	path, err := store.Save(batch)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "g1_globo_com_news.json" {
		t.Fatalf("unexpected checkpoint name: %s", path)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.SourceID != "g1_globo_com" {
		t.Fatalf("source id not recovered: %q", loaded.SourceID)
	}
	if loaded.Language != "pt" {
		t.Fatalf("unexpected language: %q", loaded.Language)
	}
	if len(loaded.Items) != 2 || loaded.Items[0].Title != "Primeira" || loaded.Items[1].Title != "Segunda" {
		t.Fatalf("items not preserved in order: %+v", loaded.Items)
	}
}

func TestCheckpointSchema(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	path, err := store.Save(domain.FeedBatch{
		Language: "en",
		SourceID: "example_com",
		Items:    []domain.NewsItem{{Title: "One", Link: "https://x", Source: "X"}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, ok := generic["language"]; !ok {
		t.Fatal(`missing "language" key`)
	}
	news, ok := generic["news"].([]any)
	if !ok || len(news) != 1 {
		t.Fatalf(`missing or malformed "news" key: %v`, generic["news"])
	}
	first := news[0].(map[string]any)
	for _, key := range []string{"title", "summary", "link", "source"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("missing item key %q", key)
		}
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Save(domain.FeedBatch{Language: "pt", SourceID: "b_feed"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(domain.FeedBatch{Language: "pt", SourceID: "a_feed"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	paths, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a_feed_news.json" {
		t.Fatalf("paths not sorted: %v", paths)
	}
}

func TestSaveRequiresSourceID(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Save(domain.FeedBatch{Language: "pt"}); err == nil {
		t.Fatal("expected error for batch without source id")
	}
}

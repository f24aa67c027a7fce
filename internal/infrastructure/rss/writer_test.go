package rss

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
)

func TestWriteDescriptor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audio := filepath.Join(dir, "g1_globo_com_episode_30_ago_09_00.mp3")
	if err := os.WriteFile(audio, []byte("ID3fake-bytes"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	writer := NewWriter("https://podcast.example.com", "News Colletector")
	path, err := writer.Write("pt", []domain.CompiledEpisode{
		{AudioPath: audio, FeedName: "G1 Globo Com", AssembledAt: time.Now(), ConstituentCount: 2},
	}, dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	xml := string(raw)

	if !strings.Contains(xml, "<rss") {
		t.Fatal("not an RSS document")
	}
	if !strings.Contains(xml, "g1_globo_com_episode_30_ago_09_00.mp3") {
		t.Fatal("episode enclosure missing")
	}
	if !strings.Contains(xml, "<guid") {
		t.Fatal("guid missing")
	}
	if filepath.Base(path) != "pt_feed.xml" {
		t.Fatalf("unexpected descriptor name: %s", path)
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	audio := filepath.Join(dir, "episode.mp3")
	if err := os.WriteFile(audio, []byte("x"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	assembled := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	episodes := []domain.CompiledEpisode{{AudioPath: audio, FeedName: "Feed", AssembledAt: assembled}}

	writer := NewWriter("https://podcast.example.com", "")

	path1, err := writer.Write("en", episodes, dir)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	first, _ := os.ReadFile(path1)

	path2, err := writer.Write("en", episodes, dir)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	second, _ := os.ReadFile(path2)

	if path1 != path2 {
		t.Fatalf("descriptor path changed: %s vs %s", path1, path2)
	}

	// The channel timestamp moves; the item set must not.
	if !strings.Contains(string(first), "<guid") || !strings.Contains(string(second), "<guid") {
		t.Fatal("guids missing")
	}
	if strings.Count(string(first), "<item>") != strings.Count(string(second), "<item>") {
		t.Fatal("item set changed between identical publishes")
	}
}

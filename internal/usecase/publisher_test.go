package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robcarv/news-colletector/internal/domain"
)

type fakeFeedWriter struct {
	language string
	episodes []domain.CompiledEpisode
	calls    int
}

func (f *fakeFeedWriter) Write(language string, episodes []domain.CompiledEpisode, outputDir string) (string, error) {
	f.calls++
	f.language = language
	f.episodes = episodes
	return filepath.Join(outputDir, language+"_feed.xml"), nil
}

func TestPublisherListsOnlyEpisodesOfItsSources(t *testing.T) {
	t.Parallel()

	audioDir := t.TempDir()
	for _, name := range []string{
		"g1_globo_com_episode_30-08-2026_14h05.mp3",
		"g1_globo_com_episode_29-08-2026_14h05.mp3",
		"nytimes_com_episode_30-08-2026_14h05.mp3",
		"g1_globo_com_alta_do_dia.wav",
	} {
		if err := os.WriteFile(filepath.Join(audioDir, name), []byte("mp3"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	writer := &fakeFeedWriter{}
	p := NewPublisher(writer, audioDir, t.TempDir(), testLogger())

	path, err := p.Publish("pt", []string{"g1_globo_com"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if path == "" {
		t.Fatal("no descriptor written")
	}

	// Two g1 episodes; the English episode and the raw narration stay
	// out of the Portuguese feed.
	if len(writer.episodes) != 2 {
		t.Fatalf("episodes = %+v", writer.episodes)
	}
	for _, ep := range writer.episodes {
		if ep.FeedName != "g1 globo com" {
			t.Fatalf("feed name = %q", ep.FeedName)
		}
	}
}

func TestPublisherSkipsWriteWhenNothingCompiled(t *testing.T) {
	t.Parallel()

	writer := &fakeFeedWriter{}
	p := NewPublisher(writer, t.TempDir(), t.TempDir(), testLogger())

	path, err := p.Publish("pt", []string{"g1_globo_com"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if path != "" || writer.calls != 0 {
		t.Fatalf("path=%q calls=%d", path, writer.calls)
	}
}

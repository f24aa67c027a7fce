package usecase

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
)

// Publisher rebuilds a language's syndication feed from the compiled
// episodes present on disk. It enumerates the filesystem instead of
// trusting in-memory state so episodes from earlier runs stay listed.
type Publisher struct {
	writer    ports.FeedWriter
	audioDir  string
	outputDir string
	logger    *slog.Logger
}

func NewPublisher(writer ports.FeedWriter, audioDir, outputDir string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer:    writer,
		audioDir:  audioDir,
		outputDir: outputDir,
		logger:    logger.With(slog.String("component", "publisher")),
	}
}

// Publish writes the feed descriptor for one language, covering every
// episode whose source belongs to that language. Returns the descriptor
// path, or empty when there are no episodes to list.
func (p *Publisher) Publish(language string, sourceIDs []string) (string, error) {
	entries, err := os.ReadDir(p.audioDir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", p.audioDir, err)
	}

	var episodes []domain.CompiledEpisode
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		sourceID, ok := episodeSource(entry.Name(), sourceIDs)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		episodes = append(episodes, domain.CompiledEpisode{
			AudioPath:   filepath.Join(p.audioDir, entry.Name()),
			FeedName:    feedDisplayName(sourceID),
			AssembledAt: info.ModTime(),
		})
	}

	if len(episodes) == 0 {
		p.logger.Info("no episodes to publish", slog.String("language", language))
		return "", nil
	}

	path, err := p.writer.Write(language, episodes, p.outputDir)
	if err != nil {
		return "", fmt.Errorf("writing feed for %s: %w", language, err)
	}

	p.logger.Info("feed published",
		slog.String("language", language),
		slog.String("path", path),
		slog.Int("episodes", len(episodes)),
	)
	return path, nil
}

// episodeSource matches a filename against the known sources and reports
// which one compiled it. Only episode files qualify; per-item narrations
// share the directory but carry no marker.
func episodeSource(name string, sourceIDs []string) (string, bool) {
	if !strings.Contains(name, episodeMarker) {
		return "", false
	}
	for _, id := range sourceIDs {
		if strings.HasPrefix(name, id+episodeMarker) {
			return id, true
		}
	}
	return "", false
}

// feedDisplayName turns a source identifier back into something
// readable for feed listings.
func feedDisplayName(sourceID string) string {
	return strings.ReplaceAll(sourceID, "_", " ")
}

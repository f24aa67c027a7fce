// Package rss renders the republished podcast feed. The descriptor is a
// derived view of the audio directory, regenerated whole on every
// publish.
package rss

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/feeds"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
)

// Writer renders RSS 2.0 descriptors with audio enclosures.
type Writer struct {
	siteURL string
	author  string
}

var _ ports.FeedWriter = (*Writer)(nil)

// NewWriter sets channel-level metadata shared by every language feed.
func NewWriter(siteURL, author string) *Writer {
	if siteURL == "" {
		siteURL = "https://localhost/podcast"
	}
	return &Writer{siteURL: siteURL, author: author}
}

// Write renders one descriptor for a language and returns its path. Each
// item's guid is the episode filename, which is unique per run by
// construction.
func (w *Writer) Write(language string, episodes []domain.CompiledEpisode, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create feed output dir: %w", err)
	}

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("News Colletector (%s)", language),
		Link:        &feeds.Link{Href: w.siteURL},
		Description: fmt.Sprintf("Resumo diário das notícias (%s).", language),
		Author:      &feeds.Author{Name: w.author},
		Created:     time.Now(),
	}

	for _, episode := range episodes {
		name := filepath.Base(episode.AudioPath)

		var length int64
		if info, err := os.Stat(episode.AudioPath); err == nil {
			length = info.Size()
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          name,
			Title:       episode.FeedName,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/%s", w.siteURL, name)},
			Description: fmt.Sprintf("Resumo das notícias de %s.", episode.FeedName),
			Created:     episode.AssembledAt,
			Enclosure: &feeds.Enclosure{
				Url:    fmt.Sprintf("%s/%s", w.siteURL, name),
				Length: fmt.Sprintf("%d", length),
				Type:   "audio/mpeg",
			},
		})
	}

	xml, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("render rss: %w", err)
	}

	outPath := filepath.Join(outputDir, fmt.Sprintf("%s_feed.xml", language))
	tmp := outPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(xml), 0o644); err != nil {
		return "", fmt.Errorf("write feed descriptor: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("publish feed descriptor: %w", err)
	}

	return outPath, nil
}

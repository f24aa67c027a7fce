package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/textutil"
)

// SilencePadding separates narrations inside a compiled episode: one
// pause before the first narration and one after every narration.
const SilencePadding = time.Second

// episodeMarker tags compiled filenames so the publisher can tell
// episodes apart from per-item narrations in the same directory.
const episodeMarker = "_episode_"

// Compiler assembles a batch's narrations into a single episode file.
type Compiler struct {
	concat   ports.Concatenator
	audioDir string
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

func NewCompiler(concat ports.Concatenator, audioDir string, loc *time.Location, logger *slog.Logger) *Compiler {
	return &Compiler{
		concat:   concat,
		audioDir: audioDir,
		loc:      loc,
		logger:   logger.With(slog.String("component", "compiler")),
		now:      time.Now,
	}
}

// Compile concatenates the batch's artifacts in source order. Artifacts
// whose files vanished are skipped with a warning; if nothing remains
// there is no episode and Compile returns nil without error.
func (c *Compiler) Compile(ctx context.Context, artifacts []domain.AudioArtifact, sourceID string) (*domain.CompiledEpisode, error) {
	ordered := make([]domain.AudioArtifact, len(artifacts))
	copy(ordered, artifacts)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SourceItemIndex < ordered[j].SourceItemIndex
	})

	inputs := make([]string, 0, len(ordered))
	for _, a := range ordered {
		if _, err := os.Stat(a.Path); err != nil {
			c.logger.Warn("narration file missing, excluding from episode",
				slog.String("path", a.Path),
				slog.Any("error", err),
			)
			continue
		}
		inputs = append(inputs, a.Path)
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	assembledAt := c.now().In(c.loc)
	outputPath := c.episodePath(sourceID, assembledAt)

	if err := c.concat.Concat(ctx, inputs, SilencePadding, outputPath); err != nil {
		return nil, fmt.Errorf("concatenating episode for %s: %w", sourceID, err)
	}

	c.logger.Info("episode compiled",
		slog.String("source", sourceID),
		slog.String("path", outputPath),
		slog.Int("narrations", len(inputs)),
	)

	return &domain.CompiledEpisode{
		AudioPath:        outputPath,
		FeedName:         sourceID,
		AssembledAt:      assembledAt,
		ConstituentCount: len(inputs),
	}, nil
}

// episodePath builds a unique episode filename from the source and a
// localized timestamp. If two episodes for the same source land within
// the same minute the newer one gets a numeric suffix instead of
// clobbering the older.
func (c *Compiler) episodePath(sourceID string, assembledAt time.Time) string {
	stamp := textutil.Slug(assembledAt.Format("02-01-2006 15h04"))
	base := sourceID + episodeMarker + stamp

	path := filepath.Join(c.audioDir, base+".mp3")
	for version := 2; ; version++ {
		if _, err := os.Stat(path); err != nil {
			return path
		}
		path = filepath.Join(c.audioDir, fmt.Sprintf("%s_%d.mp3", base, version))
	}
}

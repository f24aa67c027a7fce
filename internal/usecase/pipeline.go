package usecase

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/robcarv/news-colletector/internal/config"
	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/textutil"
)

// Pipeline wires the stages of one full run: sweep expired audio,
// collect every configured feed into checkpoints, narrate each batch,
// compile episodes, and republish the per-language feeds. One failing
// feed never aborts the others.
type Pipeline struct {
	collector *Collector
	processor *Processor
	compiler  *Compiler
	publisher *Publisher
	store     ports.BatchStore
	uploader  ports.Uploader

	feeds     []config.FeedConfig
	audioDir  string
	retention time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// PipelineDeps bundles the pipeline's stage implementations. Uploader
// may be nil when no podcast host is configured.
type PipelineDeps struct {
	Collector *Collector
	Processor *Processor
	Compiler  *Compiler
	Publisher *Publisher
	Store     ports.BatchStore
	Uploader  ports.Uploader
}

func NewPipeline(deps PipelineDeps, cfg config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		collector: deps.Collector,
		processor: deps.Processor,
		compiler:  deps.Compiler,
		publisher: deps.Publisher,
		store:     deps.Store,
		uploader:  deps.Uploader,
		feeds:     cfg.Feeds,
		audioDir:  cfg.Paths.AudioDir,
		retention: time.Duration(cfg.Pipeline.RetentionDays) * 24 * time.Hour,
		logger:    logger.With(slog.String("component", "pipeline")),
		now:       time.Now,
	}
}

// Run executes one complete pass over every configured feed.
func (p *Pipeline) Run(ctx context.Context) error {
	started := p.now()
	p.logger.Info("run started", slog.Int("feeds", len(p.feeds)))

	sweepOldAudio(p.audioDir, p.retention, started, p.logger)

	for _, feed := range p.feeds {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, _, err := p.collector.CollectFeed(ctx, feed); err != nil {
			p.logger.Error("feed collection failed",
				slog.String("url", feed.URL),
				slog.Any("error", err),
			)
		}
	}

	paths, err := p.store.List()
	if err != nil {
		return err
	}

	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report := p.runBatch(ctx, path)
		p.logger.Info("batch finished",
			slog.String("checkpoint", path),
			slog.Int("collected", report.Collected),
			slog.Int("produced", report.Produced),
			slog.Int("failed", report.Failed),
			slog.Bool("episode", report.Compiled != nil),
		)
	}

	p.publishAll()

	p.logger.Info("run finished", slog.Duration("elapsed", p.now().Sub(started)))
	return ctx.Err()
}

// runBatch narrates one checkpointed batch and compiles its episode.
func (p *Pipeline) runBatch(ctx context.Context, path string) domain.BatchReport {
	report := domain.BatchReport{FeedPath: path}

	batch, err := p.store.Load(path)
	if err != nil {
		p.logger.Error("cannot load checkpoint", slog.String("path", path), slog.Any("error", err))
		return report
	}
	report.Collected = len(batch.Items)

	var artifacts []domain.AudioArtifact
	for i, item := range batch.Items {
		if ctx.Err() != nil {
			return report
		}
		outcome := p.processor.Process(ctx, item, i, batch)
		switch {
		case outcome.Produced():
			report.Produced++
			artifacts = append(artifacts, *outcome.Artifact)
		case outcome.Failed():
			report.Failed++
		default:
			report.Skipped++
		}
	}

	episode, err := p.compiler.Compile(ctx, artifacts, batch.SourceID)
	if err != nil {
		p.logger.Error("episode compilation failed",
			slog.String("source", batch.SourceID),
			slog.Any("error", err),
		)
		return report
	}
	report.Compiled = episode

	if episode != nil && p.uploader != nil {
		if err := p.uploader.Upload(ctx, episode.AudioPath, episode.FeedName); err != nil {
			p.logger.Warn("episode upload failed",
				slog.String("path", episode.AudioPath),
				slog.Any("error", err),
			)
		}
	}

	return report
}

// publishAll rewrites the feed descriptor of every configured language.
func (p *Pipeline) publishAll() {
	for language, sources := range p.sourcesByLanguage() {
		if _, err := p.publisher.Publish(language, sources); err != nil {
			p.logger.Error("feed publish failed",
				slog.String("language", language),
				slog.Any("error", err),
			)
		}
	}
}

func (p *Pipeline) sourcesByLanguage() map[string][]string {
	byLanguage := make(map[string][]string)
	for _, feed := range p.feeds {
		id := textutil.SourceID(feed.URL)
		byLanguage[feed.Language] = append(byLanguage[feed.Language], id)
	}
	for _, sources := range byLanguage {
		sort.Strings(sources)
	}
	return byLanguage
}

package usecase

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/robcarv/news-colletector/internal/config"
	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/textutil"
)

// Processor runs one item through summarize, synthesize, and deliver.
// Every attempt restarts from the top: a half-finished narration is
// worthless, so the stages are retried as a unit.
type Processor struct {
	summarizer ports.Summarizer
	engine     ports.SpeechEngine
	notifier   ports.Notifier
	governor   ports.Governor
	history    ports.HistoryRepository

	voices         config.TTSConfig
	audioDir       string
	maxAttempts    int
	baseCooldown   time.Duration
	cooldownFactor float64

	logger *slog.Logger
	sleep  func(time.Duration)
	now    func() time.Time
}

// ProcessorDeps bundles the processor's collaborators. Notifier and
// history may be nil; both are side channels, not stages.
type ProcessorDeps struct {
	Summarizer ports.Summarizer
	Engine     ports.SpeechEngine
	Notifier   ports.Notifier
	Governor   ports.Governor
	History    ports.HistoryRepository
}

func NewProcessor(deps ProcessorDeps, cfg config.Config, logger *slog.Logger) *Processor {
	return &Processor{
		summarizer:     deps.Summarizer,
		engine:         deps.Engine,
		notifier:       deps.Notifier,
		governor:       deps.Governor,
		history:        deps.History,
		voices:         cfg.TTS,
		audioDir:       cfg.Paths.AudioDir,
		maxAttempts:    cfg.Pipeline.MaxAttempts,
		baseCooldown:   cfg.Pipeline.BaseCooldown(),
		cooldownFactor: cfg.Pipeline.CooldownFactor,
		logger:         logger.With(slog.String("component", "processor")),
		sleep:          time.Sleep,
		now:            time.Now,
	}
}

// Process narrates one item and returns its outcome. If the item's
// artifact already exists the existing file is returned untouched; the
// engine is never invoked for it.
func (p *Processor) Process(ctx context.Context, item domain.NewsItem, index int, batch domain.FeedBatch) domain.ItemOutcome {
	log := p.logger.With(
		slog.String("source", batch.SourceID),
		slog.Int("index", index),
		slog.String("title", item.Title),
	)

	artifactPath := ArtifactPath(p.audioDir, batch.SourceID, item)
	if _, err := os.Stat(artifactPath); err == nil {
		log.Info("narration already on disk, reusing", slog.String("path", artifactPath))
		return domain.ItemOutcome{
			Index:    index,
			Artifact: &domain.AudioArtifact{Path: artifactPath, SourceItemIndex: index},
		}
	}

	language := LanguageFor(item, batch.Language)
	var lastFailure domain.FailureKind

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		outcome, failure := p.attempt(ctx, item, index, language, artifactPath, log)
		if failure == "" {
			outcome.Attempts = attempt
			return outcome
		}

		lastFailure = failure
		if ctx.Err() != nil {
			break
		}

		log.Warn("attempt failed",
			slog.Int("attempt", attempt),
			slog.String("reason", string(failure)),
		)
		if attempt < p.maxAttempts {
			log.Debug("item status", slog.String("status", string(domain.StatusRetryWait)))
			p.sleep(p.baseCooldown * time.Duration(attempt))
			p.governor.RecordCleanup()
		}
	}

	log.Error("item abandoned after retries",
		slog.Int("attempts", p.maxAttempts),
		slog.String("reason", string(lastFailure)),
	)
	return domain.ItemOutcome{Index: index, Failure: lastFailure, Attempts: p.maxAttempts}
}

// attempt runs one full pass over the item's stages. A non-empty failure
// kind means the caller may retry; an outcome with an artifact means the
// pass succeeded even if delivery did not.
func (p *Processor) attempt(ctx context.Context, item domain.NewsItem, index int, language, artifactPath string, log *slog.Logger) (domain.ItemOutcome, domain.FailureKind) {
	if !p.governor.ShouldProceed() {
		p.governor.WaitIfNeeded(ctx)
		if !p.governor.ShouldProceed() {
			return domain.ItemOutcome{}, domain.FailureResourceExhausted
		}
	}

	started := p.now()

	log.Debug("item status", slog.String("status", string(domain.StatusSummarizing)))
	summary, err := p.summarizer.Summarize(ctx, item.Summary, language)
	if err != nil {
		log.Warn("summarization failed", slog.Any("error", err))
		return domain.ItemOutcome{}, domain.FailureSummarization
	}

	narration := textutil.PrepareForSpeech(item.Title+". "+summary+". Fonte: "+item.Source, language)

	log.Debug("item status", slog.String("status", string(domain.StatusSynthesizing)))
	err = p.engine.Synthesize(ctx, ports.SpeechRequest{
		Text:       narration,
		Language:   language,
		Voice:      p.voices.Voice(language),
		OutputPath: artifactPath,
	})
	if err != nil {
		log.Warn("synthesis failed", slog.Any("error", err))
		os.Remove(artifactPath)
		return domain.ItemOutcome{}, domain.FailureSynthesis
	}

	outcome := domain.ItemOutcome{
		Index: index,
		Artifact: &domain.AudioArtifact{
			Path:             artifactPath,
			DurationEstimate: estimateDuration(narration),
			SourceItemIndex:  index,
		},
	}

	if p.notifier != nil {
		log.Debug("item status", slog.String("status", string(domain.StatusDelivering)))
		if err := p.notifier.NotifyItem(ctx, item, summary, artifactPath); err != nil {
			log.Warn("delivery failed, keeping narration", slog.Any("error", err))
			outcome.Failure = domain.FailureDelivery
		}
	}

	p.recordHistory(ctx, item, summary, artifactPath, domain.StatusDone, log)
	p.settle(started)
	return outcome, ""
}

// settle pauses between items so a slow host recovers before the next
// synthesis. The pause grows with how long the attempt took, never
// dropping below the configured floor.
func (p *Processor) settle(started time.Time) {
	cooldown := p.baseCooldown
	if adaptive := time.Duration(float64(p.now().Sub(started)) * p.cooldownFactor); adaptive > cooldown {
		cooldown = adaptive
	}
	p.sleep(cooldown)
	p.governor.RecordCleanup()
}

func (p *Processor) recordHistory(ctx context.Context, item domain.NewsItem, summary, audioPath string, status domain.ItemStatus, log *slog.Logger) {
	if p.history == nil {
		return
	}
	record := domain.ProcessedNews{
		Item:      item,
		Summary:   summary,
		AudioPath: audioPath,
		Status:    status,
		CreatedAt: p.now(),
		UpdatedAt: p.now(),
	}
	if err := p.history.SaveProcessed(ctx, record); err != nil {
		log.Warn("history save failed", slog.Any("error", err))
	}
}

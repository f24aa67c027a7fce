// Package app wires configuration to use cases and owns the process
// lifecycle: run lock, memory limit, one-shot versus scheduled mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/robcarv/news-colletector/internal/checkpoint"
	"github.com/robcarv/news-colletector/internal/config"
	"github.com/robcarv/news-colletector/internal/governor"
	"github.com/robcarv/news-colletector/internal/infrastructure/audio"
	"github.com/robcarv/news-colletector/internal/infrastructure/feedsource"
	"github.com/robcarv/news-colletector/internal/infrastructure/llm"
	"github.com/robcarv/news-colletector/internal/infrastructure/podcast"
	"github.com/robcarv/news-colletector/internal/infrastructure/rss"
	"github.com/robcarv/news-colletector/internal/infrastructure/scheduler"
	"github.com/robcarv/news-colletector/internal/infrastructure/storage"
	"github.com/robcarv/news-colletector/internal/infrastructure/telegram"
	infratts "github.com/robcarv/news-colletector/internal/infrastructure/tts"
	"github.com/robcarv/news-colletector/internal/logging"
	"github.com/robcarv/news-colletector/internal/ports"
	"github.com/robcarv/news-colletector/internal/runlock"
	"github.com/robcarv/news-colletector/internal/summarize"
	"github.com/robcarv/news-colletector/internal/tts"
	"github.com/robcarv/news-colletector/internal/usecase"
)

// Application is the assembled pipeline plus its lifecycle settings.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	history  *storage.PostgresRepository
	logger   *slog.Logger
}

// New assembles the full pipeline from configuration. Optional
// collaborators (notifier, history store, uploader, remote summarizer)
// are wired only when their credentials are present.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if cfg.Resources.MemoryLimitMB > 0 {
		debug.SetMemoryLimit(cfg.Resources.MemoryLimitMB << 20)
	}

	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.AudioDir, cfg.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	store, err := checkpoint.NewStore(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(cfg.TTS)
	if err != nil {
		return nil, err
	}

	var summarizer ports.Summarizer = summarize.NewExtractive()
	if cfg.Summarizer.APIKey != "" {
		summarizer = llm.NewOpenAISummarizer(cfg.Summarizer)
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	var uploader ports.Uploader
	if cfg.Podcast.ClientID != "" && cfg.Podcast.UploadURL != "" {
		uploader = podcast.NewUploader(cfg.Podcast)
	}

	var history *storage.PostgresRepository
	if cfg.Database.DSN != "" {
		history, err = storage.Open(cfg.Database.DSN)
		if err != nil {
			// History is audit-only; the pipeline runs without it.
			baseLogger.Warn("history store unavailable", slog.Any("error", err))
			history = nil
		}
	}

	gov := governor.New(cfg.Resources, governor.NewSystemSampler(), baseLogger)
	loc := cfg.Scheduler.Location()
	filter := usecase.NewFilter(cfg.Paths.AudioDir, loc)

	processor := usecase.NewProcessor(usecase.ProcessorDeps{
		Summarizer: summarizer,
		Engine:     engine,
		Notifier:   notifier,
		Governor:   gov,
		History:    historyOrNil(history),
	}, cfg, baseLogger)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Collector: usecase.NewCollector(feedsource.NewGofeedSource(nil), store, filter, cfg.Pipeline.MaxNews, baseLogger),
		Processor: processor,
		Compiler:  usecase.NewCompiler(audio.NewFFmpegConcatenator(""), cfg.Paths.AudioDir, loc, baseLogger),
		Publisher: usecase.NewPublisher(rss.NewWriter(cfg.Podcast.SiteURL, cfg.Podcast.Author), cfg.Paths.AudioDir, cfg.Paths.OutputDir, baseLogger),
		Store:     store,
		Uploader:  uploader,
	}, cfg, baseLogger)

	return &Application{
		cfg:      cfg,
		pipeline: pipeline,
		history:  history,
		logger:   baseLogger,
	}, nil
}

// buildEngine registers every configured speech engine and resolves the
// selected one.
func buildEngine(cfg config.TTSConfig) (ports.SpeechEngine, error) {
	registry := tts.NewRegistry()
	registry.Register(infratts.NewPiperEngine(cfg.PiperPath, cfg.VoicesDir))

	if len(cfg.Command) > 0 {
		custom, err := infratts.NewCommandEngine(cfg.Command)
		if err != nil {
			return nil, err
		}
		registry.Register(custom)
	}

	return registry.Resolve(cfg.Engine)
}

// historyOrNil keeps a typed nil pointer out of the interface value.
func historyOrNil(history *storage.PostgresRepository) ports.HistoryRepository {
	if history == nil {
		return nil
	}
	return history
}

// Run executes the pipeline once or on the configured schedule,
// depending on the run mode. The run lock covers the whole lifetime so
// overlapping cron entries and service mode never race.
func (a *Application) Run(ctx context.Context) error {
	lock, err := runlock.Acquire(a.cfg.Paths.DataDir)
	if err != nil {
		return err
	}
	defer lock.Release()
	defer a.closeHistory()

	if a.cfg.Scheduler.RunOnce {
		return a.pipeline.Run(ctx)
	}

	ticker := scheduler.NewTickerScheduler(a.cfg.Scheduler.Interval())
	err = ticker.Start(ctx, func(time.Time) {
		if err := a.pipeline.Run(ctx); err != nil {
			a.logger.Error("scheduled run failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ticker.Stop(stopCtx)
}

func (a *Application) closeHistory() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		a.logger.Warn("closing history store", slog.Any("error", err))
	}
}

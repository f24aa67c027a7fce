package ports

import (
	"context"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
)

// RawEntry is the shapeless view of one feed entry as the parser exposes
// it. Field fallbacks (summary vs description, published vs updated) are
// resolved by the normalizer, nowhere else.
type RawEntry struct {
	Title       string
	Link        string
	Summary     string
	Description string
	PublishedAt *time.Time
	FeedTitle   string
}

// FeedSource fetches raw entries from one feed URL.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) ([]RawEntry, error)
}

// Summarizer condenses article text; language is a BCP-ish tag ("pt",
// "en"). Implementations return the input unchanged when it is too short
// to summarize.
type Summarizer interface {
	Summarize(ctx context.Context, text, language string) (string, error)
}

// SpeechRequest carries everything an engine needs to narrate one text.
type SpeechRequest struct {
	Text       string
	Language   string
	Voice      string
	OutputPath string
}

// SpeechEngine converts text into an audio file on disk.
type SpeechEngine interface {
	Name() string
	Synthesize(ctx context.Context, req SpeechRequest) error
}

// Notifier delivers one narrated item to a messaging channel. Failures
// are side-effect failures: the item still counts as produced.
type Notifier interface {
	NotifyItem(ctx context.Context, item domain.NewsItem, summary, audioPath string) error
}

// Uploader pushes a compiled episode to a podcast host.
type Uploader interface {
	Upload(ctx context.Context, audioPath, feedName string) error
}

// Concatenator joins ordered audio inputs into one output file with a
// fixed silence inserted before the first input and after every input.
type Concatenator interface {
	Concat(ctx context.Context, inputs []string, silence time.Duration, outputPath string) error
}

// BatchStore checkpoints collected batches between the collection and
// synthesis stages.
type BatchStore interface {
	Save(batch domain.FeedBatch) (string, error)
	Load(path string) (domain.FeedBatch, error)
	List() ([]string, error)
}

// HistoryRepository records processed items for audit. A nil repository
// disables history; it never drives dedup.
type HistoryRepository interface {
	SaveProcessed(ctx context.Context, record domain.ProcessedNews) error
}

// FeedWriter renders a syndication descriptor for compiled episodes.
type FeedWriter interface {
	Write(language string, episodes []domain.CompiledEpisode, outputDir string) (string, error)
}

// Governor gates resource-heavy work on constrained hosts.
type Governor interface {
	ShouldProceed() bool
	WaitIfNeeded(ctx context.Context)
	RecordCleanup()
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

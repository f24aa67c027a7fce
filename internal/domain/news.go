package domain

import "time"

// NewsItem is the canonical record produced by normalizing one raw feed
// entry. It is immutable once created; downstream stages attach derived
// data in companion structures rather than mutating it.
type NewsItem struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"publication_date,omitempty"`
}

// FeedBatch groups the items collected from one feed in the feed's
// original entry order. That order determines narration and compilation
// order end to end.
type FeedBatch struct {
	Language string     `json:"language"`
	Items    []NewsItem `json:"news"`

	// SourceID is derived deterministically from the feed URL and is
	// filesystem-safe; it names the checkpoint file and prefixes audio
	// artifacts so dedup survives across runs.
	SourceID string `json:"-"`
}

// AudioArtifact points at a narrated audio file on disk. Its existence
// under an item's derived filename is the proof that the item was already
// narrated.
type AudioArtifact struct {
	Path             string
	DurationEstimate time.Duration
	SourceItemIndex  int
}

// CompiledEpisode is the single concatenated audio file assembled from a
// batch's narrations.
type CompiledEpisode struct {
	AudioPath        string
	FeedName         string
	AssembledAt      time.Time
	ConstituentCount int
}

// ItemStatus enumerates the per-item processing state machine.
type ItemStatus string

const (
	StatusPending      ItemStatus = "pending"
	StatusSummarizing  ItemStatus = "summarizing"
	StatusSynthesizing ItemStatus = "synthesizing"
	StatusDelivering   ItemStatus = "delivering"
	StatusDone         ItemStatus = "done"
	StatusRetryWait    ItemStatus = "retry_wait"
)

// SkipReason explains why an item did not qualify for processing. These
// are expected outcomes, not errors.
type SkipReason string

const (
	SkipEmptyTitle      SkipReason = "empty_title"
	SkipNoPublishTime   SkipReason = "no_publish_time"
	SkipNotToday        SkipReason = "not_published_today"
	SkipAlreadyRendered SkipReason = "artifact_exists"
	SkipIncompleteEntry SkipReason = "incomplete_entry"
	SkipOverCap         SkipReason = "over_feed_cap"
)

// FailureKind classifies processing failures for retry decisions.
type FailureKind string

const (
	FailureResourceExhausted FailureKind = "resource_exhausted"
	FailureSynthesis         FailureKind = "synthesis_failed"
	FailureSummarization     FailureKind = "summarization_failed"
	FailureDelivery          FailureKind = "delivery_failed"
)

// ItemOutcome is the result variant returned for each item a stage looks
// at: exactly one of Artifact, Skip, or Failure is meaningful.
type ItemOutcome struct {
	Index    int
	Artifact *AudioArtifact
	Skip     SkipReason
	Failure  FailureKind
	Attempts int
}

// Skipped reports whether the item was excluded for an expected reason.
func (o ItemOutcome) Skipped() bool { return o.Skip != "" }

// Failed reports whether the item exhausted its attempt budget.
func (o ItemOutcome) Failed() bool { return o.Failure != "" && o.Artifact == nil }

// Produced reports whether a narration exists for the item.
func (o ItemOutcome) Produced() bool { return o.Artifact != nil }

// BatchReport aggregates per-item outcomes into the counts logged at
// stage boundaries.
type BatchReport struct {
	Collected int
	Skipped   int
	Produced  int
	Failed    int
	Compiled  *CompiledEpisode
	FeedPath  string
}

// ProcessedNews is the optional audit record persisted to the history
// store after an item completes. It never participates in dedup.
type ProcessedNews struct {
	Item      NewsItem
	Summary   string
	AudioPath string
	Status    ItemStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

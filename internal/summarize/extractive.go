// Package summarize provides the local fallback summarizer used when no
// LLM endpoint is configured. It scores sentences by term frequency and
// keeps the top few in their original order.
package summarize

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/robcarv/news-colletector/internal/ports"
)

const (
	minWordsToSummarize = 20
	maxSentences        = 3
)

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Extractive is a dependency-free extractive summarizer.
type Extractive struct{}

var _ ports.Summarizer = Extractive{}

// NewExtractive returns the fallback summarizer.
func NewExtractive() Extractive { return Extractive{} }

// Summarize keeps the highest-scoring sentences. Texts shorter than a
// headline are returned unchanged.
func (Extractive) Summarize(_ context.Context, text, _ string) (string, error) {
	text = strings.TrimSpace(text)
	if len(strings.Fields(text)) < minWordsToSummarize {
		return text, nil
	}

	sentences := splitSentences(text)
	if len(sentences) <= maxSentences {
		return text, nil
	}

	freq := map[string]int{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, `.,;:!?"'()[]`)
		if len(word) > 3 {
			freq[word]++
		}
	}

	type scored struct {
		index int
		score int
	}
	ranking := make([]scored, len(sentences))
	for i, sentence := range sentences {
		s := scored{index: i}
		for _, word := range strings.Fields(strings.ToLower(sentence)) {
			s.score += freq[strings.Trim(word, `.,;:!?"'()[]`)]
		}
		ranking[i] = s
	}

	sort.SliceStable(ranking, func(a, b int) bool { return ranking[a].score > ranking[b].score })

	keep := ranking[:maxSentences]
	sort.Slice(keep, func(a, b int) bool { return keep[a].index < keep[b].index })

	parts := make([]string, 0, len(keep))
	for _, s := range keep {
		parts = append(parts, sentences[s.index])
	}
	return strings.Join(parts, " "), nil
}

func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	raw := strings.Split(marked, "\x00")

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

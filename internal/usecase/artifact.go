package usecase

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/textutil"
)

// artifactExt is the container piper writes; compiled episodes use mp3.
const artifactExt = ".wav"

// ArtifactPath derives the audio filename for one item. The path is a
// pure function of the source and title, which is what makes artifact
// existence usable as the dedup check across runs.
func ArtifactPath(audioDir, sourceID string, item domain.NewsItem) string {
	name := sourceID + "_" + textutil.Slug(item.Title) + artifactExt
	return filepath.Join(audioDir, name)
}

// englishHosts lists feed hosts whose articles are narrated in English
// regardless of the batch language. Matching is by suffix so subdomains
// qualify.
var englishHosts = []string{
	"nytimes.com",
	"bbc.co.uk",
	"bbci.co.uk",
	"ibm.com",
	"pitchfork.com",
}

// LanguageFor picks the narration language for one item: the batch
// language unless the link belongs to a known English publisher.
func LanguageFor(item domain.NewsItem, batchLanguage string) string {
	parsed, err := url.Parse(item.Link)
	if err != nil || parsed.Host == "" {
		return batchLanguage
	}
	host := strings.ToLower(parsed.Host)
	for _, h := range englishHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return "en"
		}
	}
	return batchLanguage
}

// estimateDuration guesses narration length from word count. It is only
// used for reporting; the real duration lives in the audio file.
func estimateDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	return time.Duration(words) * 400 * time.Millisecond
}

package textutil

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	slugInvalid  = regexp.MustCompile(`[^\w\-. ]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	punctuation  = regexp.MustCompile(`[.,;:!?]+`)
	domainSuffix = regexp.MustCompile(`\b[\w-]+\.(com|org|net)\b`)
)

// StripHTML discards tag structure and returns the human-readable text of
// a markup-bearing field, with whitespace collapsed to single spaces.
// Input that is not HTML passes through with the same whitespace
// normalization.
func StripHTML(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return CollapseWhitespace(raw)
	}

	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace trims and squeezes all whitespace runs into single
// spaces.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Slug derives the filesystem-safe identifier used for an item's audio
// filename. It is a pure function of the title; changing it breaks dedup
// retroactively.
func Slug(title string) string {
	s := slugInvalid.ReplaceAllString(title, "_")
	s = slugSpaces.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// SourceID derives a stable filesystem-safe identifier from a feed URL:
// the host with dots replaced by underscores.
func SourceID(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Host == "" {
		return Slug(feedURL)
	}
	return strings.ReplaceAll(parsed.Host, ".", "_")
}

// spokenDot maps a language to how a domain dot is read aloud.
func spokenDot(language string) string {
	if language == "pt" {
		return " ponto "
	}
	return " dot "
}

// PrepareForSpeech adjusts text for narration: punctuation becomes
// pauses, web addresses are spelled out so the voice does not read
// "example.com" as a number.
func PrepareForSpeech(text, language string) string {
	text = domainSuffix.ReplaceAllStringFunc(text, func(match string) string {
		return strings.ReplaceAll(match, ".", spokenDot(language))
	})
	text = punctuation.ReplaceAllString(text, " ")
	return CollapseWhitespace(text)
}

var markdownSpecials = []string{
	"_", "*", "[", "]", "(", ")", "~", "`", ">", "#",
	"+", "-", "=", "|", "{", "}", ".", "!",
}

// EscapeMarkdown escapes the characters Telegram's MarkdownV2 mode
// treats as formatting.
func EscapeMarkdown(text string) string {
	for _, ch := range markdownSpecials {
		text = strings.ReplaceAll(text, ch, `\`+ch)
	}
	return text
}

// Package textproc cleans raw spreadsheet text and estimates its token
// cost. Sheet content arrives full of authoring artifacts (placeholder
// tags, inline HTML, image URLs, full-width whitespace) that have to be
// stripped before chunking and embedding.
package textproc

import (
	"regexp"
	"strings"
)

// Options toggles the individual normalization phases. All phases are
// enabled by default.
type Options struct {
	RemoveCustomTags      bool
	RemoveHTMLTags        bool
	ReplaceImageURLs      bool
	NormalizeSpecialChars bool
	NormalizeWhitespace   bool
}

// DefaultOptions returns Options with every phase enabled.
func DefaultOptions() Options {
	return Options{
		RemoveCustomTags:      true,
		RemoveHTMLTags:        true,
		ReplaceImageURLs:      true,
		NormalizeSpecialChars: true,
		NormalizeWhitespace:   true,
	}
}

const imagePlaceholder = "[画像]"

var (
	// [tag] / {tag} where tag is alphanumeric or Japanese script
	// (hiragana, katakana, CJK ideographs).
	bracketTagRe = regexp.MustCompile(`\[[\w\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]+\]`)
	braceTagRe   = regexp.MustCompile(`\{[\w\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]+\}`)

	// <style>/<script> blocks are removed with their content, then any
	// remaining markup tags.
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)

	imageURLRe       = regexp.MustCompile(`https://firebasestorage\.googleapis\.com/\S+`)
	imgPlaceholderRe = regexp.MustCompile(`(?i)---\s*img`)

	fullWidthSpaceRe = regexp.MustCompile("　")
	zeroWidthRe      = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
	controlCharRe    = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")

	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	manyNewlinesRe    = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans text with all phases enabled.
func Normalize(text string) string {
	return NormalizeWith(text, DefaultOptions())
}

// NormalizeWith cleans text according to opts. Tag, markup and URL removal
// run before whitespace normalization so that removed segments leave no
// stray whitespace behind. Empty input yields an empty string.
func NormalizeWith(text string, opts Options) string {
	if text == "" {
		return ""
	}

	cleaned := text

	// Phase 1: markup removal
	if opts.RemoveCustomTags {
		cleaned = removeCustomTags(cleaned)
	}
	if opts.RemoveHTMLTags {
		cleaned = removeHTMLTags(cleaned)
	}
	if opts.ReplaceImageURLs {
		cleaned = replaceImageURLs(cleaned)
	}

	// Phase 2: character and whitespace normalization
	if opts.NormalizeSpecialChars {
		cleaned = normalizeSpecialChars(cleaned)
	}
	if opts.NormalizeWhitespace {
		cleaned = normalizeWhitespace(cleaned)
	}

	return cleaned
}

func removeCustomTags(text string) string {
	text = bracketTagRe.ReplaceAllString(text, "")
	return braceTagRe.ReplaceAllString(text, "")
}

func removeHTMLTags(text string) string {
	text = styleBlockRe.ReplaceAllString(text, "")
	text = scriptBlockRe.ReplaceAllString(text, "")
	return htmlTagRe.ReplaceAllString(text, "")
}

func replaceImageURLs(text string) string {
	text = imageURLRe.ReplaceAllString(text, imagePlaceholder)
	return imgPlaceholderRe.ReplaceAllString(text, "")
}

func normalizeSpecialChars(text string) string {
	text = fullWidthSpaceRe.ReplaceAllString(text, " ")
	text = zeroWidthRe.ReplaceAllString(text, "")
	return controlCharRe.ReplaceAllString(text, "")
}

func normalizeWhitespace(text string) string {
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

package textproc

import (
	"fmt"
	"strings"
)

// MinContentLength is the minimum cleaned-content length (in runes) for a
// row to be considered worth chunking.
const MinContentLength = 10

// ProcessByType normalizes content and applies type-specific transforms.
// Quiz-like rows get their answer choices appended after a blank line so
// that the choices are searchable alongside the question. Narrative and
// unknown types pass through unchanged. The correct answer is deliberately
// not inlined; callers keep it in metadata only.
func ProcessByType(content, rowType, choices string) string {
	cleaned := Normalize(content)

	switch rowType {
	case "survey", "multiple_choice":
		if choices != "" {
			return fmt.Sprintf("%s\n\n選択肢:\n%s", cleaned, choices)
		}
		return cleaned

	case "Lecture", "description", "text", "article":
		return cleaned

	default:
		return cleaned
	}
}

// IsValidContent reports whether text carries enough information to be
// chunked: at least minLength runes after trimming, of which at least half
// are informative (ASCII alphanumerics or Japanese script) rather than
// bare symbols.
func IsValidContent(text string, minLength int) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	total := 0
	informative := 0
	for _, r := range trimmed {
		total++
		if isASCIIAlnum(r) || isJapanese(r) {
			informative++
		}
	}

	if total < minLength {
		return false
	}
	return float64(informative) >= float64(minLength)/2
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

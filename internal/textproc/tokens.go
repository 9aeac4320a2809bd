package textproc

import "math"

// isJapanese reports whether r falls in the hiragana, katakana or CJK
// unified ideograph ranges.
func isJapanese(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK unified ideographs
		return true
	}
	return false
}

// EstimateTokens approximates the token cost of mixed Japanese/ASCII text:
// 2 per Japanese character, 1 per maximal run of ASCII alphanumerics, and
// 0.5 per remaining character, rounded up. The estimate is advisory; the
// segmenter treats its budget as a soft ceiling tuned by this heuristic.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	japanese := 0
	words := 0
	other := 0

	inWord := false
	for _, r := range text {
		switch {
		case isJapanese(r):
			japanese++
			inWord = false
		case isASCIIAlnum(r):
			if !inWord {
				words++
				inWord = true
			}
		default:
			other++
			inWord = false
		}
	}

	return int(math.Ceil(float64(japanese)*2 + float64(words) + float64(other)*0.5))
}

package chunker

import (
	"strings"

	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/textproc"
)

// contextPreviewLength bounds each neighbor excerpt, in runes.
const contextPreviewLength = 100

// BuildContext assembles short excerpts of the rows surrounding rows[index]
// for human-readable situational awareness. Up to windowSize rows on each
// side are considered, bounded by the sheet edges; neighbors with empty
// content are skipped without widening the window. Preceding excerpts come
// first, each line tagged by direction.
func BuildContext(rows []entity.SourceRow, index, windowSize int) string {
	var parts []string

	start := index - windowSize
	if start < 0 {
		start = 0
	}
	for i := start; i < index; i++ {
		if excerpt := neighborExcerpt(rows[i]); excerpt != "" {
			parts = append(parts, "[前] "+excerpt)
		}
	}

	end := index + windowSize
	if end > len(rows)-1 {
		end = len(rows) - 1
	}
	for i := index + 1; i <= end; i++ {
		if excerpt := neighborExcerpt(rows[i]); excerpt != "" {
			parts = append(parts, "[後] "+excerpt)
		}
	}

	return strings.Join(parts, "\n")
}

func neighborExcerpt(row entity.SourceRow) string {
	if row.Contents == "" {
		return ""
	}

	cleaned := textproc.Normalize(row.Contents)
	if cleaned == "" {
		return ""
	}

	runes := []rune(cleaned)
	if len(runes) > contextPreviewLength {
		runes = runes[:contextPreviewLength]
	}
	return string(runes) + "..."
}

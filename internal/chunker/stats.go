package chunker

import (
	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/textproc"
)

// Stats summarizes a chunk set, mostly for ingestion reports.
type Stats struct {
	TotalChunks   int
	AverageTokens int
	MaxTokens     int
	MinTokens     int
	BySection     map[string]int
	ByType        map[string]int
}

// ComputeStats gathers token and distribution statistics over chunks.
func ComputeStats(chunks []entity.Chunk) Stats {
	stats := Stats{
		TotalChunks: len(chunks),
		BySection:   make(map[string]int),
		ByType:      make(map[string]int),
	}

	if len(chunks) == 0 {
		return stats
	}

	sum := 0
	stats.MinTokens = textproc.EstimateTokens(chunks[0].Content)

	for _, chunk := range chunks {
		tokens := textproc.EstimateTokens(chunk.Content)
		sum += tokens
		if tokens > stats.MaxTokens {
			stats.MaxTokens = tokens
		}
		if tokens < stats.MinTokens {
			stats.MinTokens = tokens
		}

		stats.BySection[chunk.Metadata.Section]++
		stats.ByType[chunk.Metadata.Type]++
	}

	stats.AverageTokens = sum / len(chunks)

	return stats
}

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurag/knowledge-backend/internal/entity"
)

func match(id, section, contentType string, similarity float64) entity.KnowledgeMatch {
	return entity.KnowledgeMatch{
		ID:         id,
		Similarity: similarity,
		Metadata: entity.ChunkMetadata{
			Section: section,
			Type:    contentType,
		},
	}
}

func TestRerankSectionPriority(t *testing.T) {
	matches := []entity.KnowledgeMatch{
		match("outro", "Outro", "text", 0.8),
		match("intro", "Intro", "text", 0.8),
	}

	got := Rerank(matches, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "intro", got[0].ID)
	assert.Equal(t, "outro", got[1].ID)
	assert.Greater(t, got[0].AdjustedScore, got[1].AdjustedScore)
}

func TestRerankTypePriority(t *testing.T) {
	matches := []entity.KnowledgeMatch{
		match("survey", "Lecture", "survey", 0.9),
		match("article", "Lecture", "article", 0.9),
	}

	got := Rerank(matches, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "article", got[0].ID)
}

func TestRerankAdjustedScore(t *testing.T) {
	got := Rerank([]entity.KnowledgeMatch{match("a", "Intro", "article", 0.5)}, 1)

	require.Len(t, got, 1)
	assert.InDelta(t, 0.5*1.5*1.2, got[0].AdjustedScore, 1e-9)
	assert.Equal(t, 0.5, got[0].Similarity)
}

func TestRerankUnknownLabelsDefaultToOne(t *testing.T) {
	got := Rerank([]entity.KnowledgeMatch{match("a", "Appendix", "poem", 0.7)}, 1)

	require.Len(t, got, 1)
	assert.InDelta(t, 0.7, got[0].AdjustedScore, 1e-9)
}

func TestRerankLimit(t *testing.T) {
	matches := []entity.KnowledgeMatch{
		match("a", "Intro", "text", 0.9),
		match("b", "Intro", "text", 0.8),
		match("c", "Intro", "text", 0.7),
	}

	got := Rerank(matches, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestRerankPreservesSimilarity(t *testing.T) {
	matches := []entity.KnowledgeMatch{
		match("a", "Outro", "survey", 0.91),
		match("b", "Intro", "article", 0.42),
	}

	got := Rerank(matches, 10)

	similarities := map[string]float64{}
	for _, m := range got {
		similarities[m.ID] = m.Similarity
	}
	assert.Equal(t, 0.91, similarities["a"])
	assert.Equal(t, 0.42, similarities["b"])
}

func TestRerankTiesKeepOriginalOrder(t *testing.T) {
	matches := []entity.KnowledgeMatch{
		match("first", "Lecture", "text", 0.8),
		match("second", "Lecture", "text", 0.8),
		match("third", "Lecture", "text", 0.8),
	}

	got := Rerank(matches, 10)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestRerankEmptyInput(t *testing.T) {
	assert.Empty(t, Rerank(nil, 5))
}

package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/textproc"
)

func TestSplitWithinBudget(t *testing.T) {
	c := New(DefaultMaxTokens, DefaultContextSize)

	text := "  マーケティングの基礎を学びます  "
	chunks := c.Split(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(text), chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	c := New(DefaultMaxTokens, DefaultContextSize)

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n  "))
}

func TestSplitParagraphs(t *testing.T) {
	c := New(12, DefaultContextSize)

	// Each paragraph is 10 tokens; together they exceed the budget of 12,
	// so greedy accumulation flushes between them.
	text := "あいうえお\n\nかきくけこ"
	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "あいうえお", chunks[0])
	assert.Equal(t, "かきくけこ", chunks[1])
}

func TestSplitParagraphAccumulation(t *testing.T) {
	c := New(25, DefaultContextSize)

	// First two paragraphs fit together (10+10 ≤ 25), the third forces a
	// flush.
	text := "あいうえお\n\nかきくけこ\n\nさしすせそ"
	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "あいうえお\n\nかきくけこ", chunks[0])
	assert.Equal(t, "さしすせそ", chunks[1])
}

func TestSplitSentenceFallback(t *testing.T) {
	c := New(25, DefaultContextSize)

	// A single paragraph of three sentences (~11 tokens each, 32 total)
	// exceeds the budget and is re-split on sentence boundaries.
	text := "あいうえお。かきくけこ。さしすせそ。"
	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "あいうえお。かきくけこ。", chunks[0])
	assert.Equal(t, "さしすせそ。", chunks[1])
}

func TestSplitOversizedSentenceEmittedWhole(t *testing.T) {
	c := New(10, DefaultContextSize)

	// One indivisible sentence over the budget is emitted as its own
	// chunk rather than split mid-sentence.
	sentence := strings.Repeat("あ", 20)
	chunks := c.Split(sentence + "。" + "いろは。")

	require.NotEmpty(t, chunks)
	assert.Equal(t, sentence+"。", chunks[0])

	oversized := 0
	for _, chunk := range chunks {
		if textproc.EstimateTokens(chunk) > 10 {
			oversized++
		}
	}
	assert.Equal(t, 1, oversized)
}

func TestSplitBudgetProperty(t *testing.T) {
	maxTokens := 30
	c := New(maxTokens, DefaultContextSize)

	text := "顧客価値とは何か。製品の価格設定を考える。\n\n市場調査の方法を学ぶ。競合分析も重要である。\n\nブランド戦略について。"
	chunks := c.Split(text)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, textproc.EstimateTokens(chunk), maxTokens, "chunk %q", chunk)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplitPreservesOrderAndContent(t *testing.T) {
	c := New(12, DefaultContextSize)

	text := "あいうえお\n\nかきくけこ\n\nさしすせそ"
	chunks := c.Split(text)

	// Concatenation minus separators reconstructs the input content.
	assert.Equal(t, strings.ReplaceAll(text, "\n\n", ""), strings.Join(chunks, ""))
}

func TestFromRowMetadata(t *testing.T) {
	c := New(12, DefaultContextSize)

	row := entity.SourceRow{
		MessageID:     "msg-1",
		Section:       "Lecture",
		Type:          "description",
		Contents:      "あいうえおかきくけこ\n\nさしすせそたちつてと",
		CorrectAnswer: "A",
	}

	chunks := c.FromRow(row, "M6CH01001", "[前] 導入...")

	require.Len(t, chunks, 2)
	for i, chunk := range chunks {
		assert.Equal(t, "M6CH01001", chunk.Metadata.SheetName)
		assert.Equal(t, "Lecture", chunk.Metadata.Section)
		assert.Equal(t, "description", chunk.Metadata.Type)
		assert.Equal(t, "msg-1", chunk.Metadata.MessageID)
		assert.Equal(t, "A", chunk.Metadata.CorrectAnswer)
		assert.False(t, chunk.Metadata.HasChoices)
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.Equal(t, 2, chunk.Metadata.TotalChunks)
		assert.Equal(t, "[前] 導入...", chunk.Context)
	}
}

func TestFromRowSurveyChoices(t *testing.T) {
	c := New(DefaultMaxTokens, DefaultContextSize)

	row := entity.SourceRow{
		MessageID: "msg-2",
		Section:   "Lecture",
		Type:      "survey",
		Contents:  "最も重要な要素はどれですか",
		Choices:   "A. 価格\nB. 品質",
	}

	chunks := c.FromRow(row, "sheet", "")

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "選択肢:")
	assert.True(t, chunks[0].Metadata.HasChoices)
}

func TestFromRowDropsLowInformationContent(t *testing.T) {
	c := New(DefaultMaxTokens, DefaultContextSize)

	rows := []entity.SourceRow{
		{MessageID: "1", Type: "text", Contents: "短い"},
		{MessageID: "2", Type: "text", Contents: "---- ==== ----"},
		{MessageID: "3", Type: "text", Contents: "<div></div>"},
	}

	for _, row := range rows {
		assert.Empty(t, c.FromRow(row, "sheet", ""), "row %s", row.MessageID)
	}
}

func TestFromRowDefaultsSectionAndType(t *testing.T) {
	c := New(DefaultMaxTokens, DefaultContextSize)

	row := entity.SourceRow{
		MessageID: "msg-3",
		Contents:  "セクション情報のない行の本文です",
	}

	chunks := c.FromRow(row, "sheet", "")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Unknown", chunks[0].Metadata.Section)
	assert.Equal(t, "text", chunks[0].Metadata.Type)
}

func TestFromSheetSkipsInvalidRows(t *testing.T) {
	c := New(DefaultMaxTokens, DefaultContextSize)

	rows := []entity.SourceRow{
		{MessageID: "", Contents: "IDのない行の本文はスキップされる"},
		{MessageID: "2", Contents: ""},
		{MessageID: "3", Section: "Intro", Type: "text", Contents: "有効な行の本文はチャンクになる"},
	}

	chunks := c.FromSheet(rows, "sheet")

	require.Len(t, chunks, 1)
	assert.Equal(t, "3", chunks[0].Metadata.MessageID)
}

func TestFromSheetAttachesNeighborContext(t *testing.T) {
	c := New(DefaultMaxTokens, 1)

	rows := []entity.SourceRow{
		{MessageID: "1", Type: "text", Contents: "最初の行の内容がここにあります"},
		{MessageID: "2", Type: "text", Contents: "真ん中の行の内容がここにあります"},
		{MessageID: "3", Type: "text", Contents: "最後の行の内容がここにあります"},
	}

	chunks := c.FromSheet(rows, "sheet")
	require.Len(t, chunks, 3)

	middle := chunks[1]
	lines := strings.Split(middle.Context, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[前] 最初の行"))
	assert.True(t, strings.HasPrefix(lines[1], "[後] 最後の行"))
}

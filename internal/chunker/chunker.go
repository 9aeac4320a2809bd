// Package chunker splits cleaned sheet content into token-bounded chunks
// suitable for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"

	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/textproc"
)

const (
	// DefaultMaxTokens is the soft per-chunk token budget.
	DefaultMaxTokens = 500
	// DefaultContextSize is how many neighboring rows are excerpted on
	// each side of a row.
	DefaultContextSize = 1
)

var (
	paragraphRe = regexp.MustCompile(`\n\n+`)
	sentenceRe  = regexp.MustCompile(`[。．！？\n]`)
)

// Chunker produces chunks from rows under a token budget.
type Chunker struct {
	maxTokens   int
	contextSize int
}

func New(maxTokens, contextSize int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if contextSize < 0 {
		contextSize = DefaultContextSize
	}
	return &Chunker{
		maxTokens:   maxTokens,
		contextSize: contextSize,
	}
}

// Split segments text into chunks whose estimated token count stays within
// the budget. Text already within budget comes back as a single trimmed
// chunk. Otherwise blank-line paragraphs are accumulated greedily; a
// paragraph that alone exceeds the budget is split further on sentence
// boundaries (。．！？ or newline), each sentence re-terminated with 。.
// A single sentence over the budget is emitted as its own oversized chunk
// rather than split mid-sentence. Output preserves input order and never
// contains empty chunks.
func (c *Chunker) Split(text string) []string {
	if textproc.EstimateTokens(text) <= c.maxTokens {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
		currentTokens = 0
	}

	for _, paragraph := range paragraphRe.Split(text, -1) {
		paragraphTokens := textproc.EstimateTokens(paragraph)

		if paragraphTokens > c.maxTokens {
			// Paragraph alone busts the budget: flush whatever is
			// pending, then accumulate sentence by sentence.
			flush()

			for _, sentence := range sentenceRe.Split(paragraph, -1) {
				if strings.TrimSpace(sentence) == "" {
					continue
				}

				terminated := sentence + "。"
				sentenceTokens := textproc.EstimateTokens(terminated)

				if currentTokens+sentenceTokens > c.maxTokens && current.Len() > 0 {
					flush()
				}
				current.WriteString(terminated)
				currentTokens += sentenceTokens
			}
			continue
		}

		if currentTokens+paragraphTokens > c.maxTokens && current.Len() > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
		currentTokens += paragraphTokens
	}

	flush()

	return chunks
}

// FromRow cleans and type-processes a single row and splits it into chunks
// carrying per-row metadata. Rows whose processed content falls below the
// validity threshold produce no chunks.
func (c *Chunker) FromRow(row entity.SourceRow, sheetName, context string) []entity.Chunk {
	processed := textproc.ProcessByType(row.Contents, row.Type, row.Choices)

	if !textproc.IsValidContent(processed, textproc.MinContentLength) {
		return nil
	}

	contents := c.Split(processed)
	if len(contents) == 0 {
		return nil
	}

	section := row.Section
	if section == "" {
		section = "Unknown"
	}
	rowType := row.Type
	if rowType == "" {
		rowType = "text"
	}

	chunks := make([]entity.Chunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, entity.Chunk{
			Content: content,
			Context: context,
			Metadata: entity.ChunkMetadata{
				SheetName:     sheetName,
				Section:       section,
				Type:          rowType,
				MessageID:     row.MessageID,
				HasChoices:    row.Choices != "",
				CorrectAnswer: row.CorrectAnswer,
				ChunkIndex:    i,
				TotalChunks:   len(contents),
			},
		})
	}

	return chunks
}

// FromSheet chunks every qualifying row of a sheet. Rows without a message
// ID or contents are skipped entirely. Each row is chunked independently;
// chunk indices are per-row, not sheet-global.
func (c *Chunker) FromSheet(rows []entity.SourceRow, sheetName string) []entity.Chunk {
	var all []entity.Chunk

	for i, row := range rows {
		if row.MessageID == "" || row.Contents == "" {
			continue
		}

		context := BuildContext(rows, i, c.contextSize)
		all = append(all, c.FromRow(row, sheetName, context)...)
	}

	return all
}

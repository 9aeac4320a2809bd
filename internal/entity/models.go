package entity

import "time"

// Category identifies which knowledge corpus a record belongs to.
type Category string

const (
	CategoryBtoB Category = "BtoB"
	CategoryBtoC Category = "BtoC"
)

func (c Category) Validate() error {
	switch c {
	case CategoryBtoB, CategoryBtoC:
		return nil
	default:
		return ErrInvalidCategory
	}
}

// EmbeddingDimension is the vector size produced by the embedding model
// (text-embedding-004).
const EmbeddingDimension = 768

// SourceRow is one raw content unit fetched from a spreadsheet. Rows are
// read-only input to the ingestion pipeline and are never mutated.
type SourceRow struct {
	MessageID     string
	Section       string
	Type          string
	Subtype       string
	Contents      string
	Choices       string
	CorrectAnswer string
}

// ChunkMetadata describes where a chunk came from within its sheet.
// ChunkIndex and TotalChunks are positions within the owning row's own
// chunk sequence, not sheet-global.
type ChunkMetadata struct {
	SheetName     string `json:"sheetName"`
	Section       string `json:"section"`
	Type          string `json:"type"`
	MessageID     string `json:"messageId"`
	HasChoices    bool   `json:"hasChoices"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	ChunkIndex    int    `json:"chunkIndex"`
	TotalChunks   int    `json:"totalChunks"`
}

// Chunk is a token-bounded unit of cleaned text prepared for embedding.
// Context carries short excerpts of neighboring rows and is informational
// only; it is not part of the searchable content.
type Chunk struct {
	Content  string
	Context  string
	Metadata ChunkMetadata
}

// KnowledgeRecord is a chunk together with its embedding, as persisted in
// the knowledge_base table.
type KnowledgeRecord struct {
	ID        string
	Category  Category
	SheetName string
	RowNumber int
	Content   string
	Context   string
	Metadata  ChunkMetadata
	Embedding []float32
	CreatedAt time.Time
}

// KnowledgeMatch is a vector-search hit. Similarity is the raw score from
// the store and is never modified by re-ranking.
type KnowledgeMatch struct {
	ID         string
	Category   Category
	Content    string
	Context    string
	Metadata   ChunkMetadata
	Similarity float64
}

// ScoredMatch is a match with its priority-adjusted score. The adjusted
// score is used only for ordering.
type ScoredMatch struct {
	KnowledgeMatch
	AdjustedScore float64
}

// AnswerSource points a generated answer back at a chunk it drew from.
type AnswerSource struct {
	SheetName      string  `json:"sheetName"`
	Section        string  `json:"section"`
	Type           string  `json:"type"`
	Similarity     float64 `json:"similarity"`
	ContentPreview string  `json:"contentPreview"`
}

// Answer is the result of one chat turn. HasKnowledge is false when the
// re-ranked match list was empty, which is a valid terminal state rather
// than an error.
type Answer struct {
	Text         string
	Sources      []AnswerSource
	HasKnowledge bool
}

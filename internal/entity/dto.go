package entity

import "fmt"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message    string `json:"message"`
	Category   string `json:"category,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// ChatResponse is the body returned for POST /chat.
type ChatResponse struct {
	Success      bool           `json:"success"`
	Answer       string         `json:"answer"`
	Sources      []AnswerSource `json:"sources"`
	HasKnowledge bool           `json:"hasKnowledge"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SearchResultDTO is one re-ranked hit in a search response.
type SearchResultDTO struct {
	Content       string        `json:"content"`
	Context       string        `json:"context,omitempty"`
	Metadata      ChunkMetadata `json:"metadata"`
	Similarity    float64       `json:"similarity"`
	AdjustedScore float64       `json:"adjustedScore"`
}

// SearchResponse is the body returned for POST /search.
type SearchResponse struct {
	Success bool              `json:"success"`
	Query   string            `json:"query"`
	Results []SearchResultDTO `json:"results"`
}

// ModelInfoResponse reports the currently selected generation model.
type ModelInfoResponse struct {
	Model  string `json:"model"`
	Cached bool   `json:"cached"`
}

// ExportRequest is the body of POST /chat/export.
type ExportRequest struct {
	Message string       `json:"message"`
	Answer  string       `json:"answer"`
	Format  ResultFormat `json:"format"`
}

// ResultFormat selects the document format for exported transcripts.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)

func (f ResultFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

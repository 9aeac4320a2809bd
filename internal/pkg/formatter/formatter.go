// Package formatter renders chat transcripts into downloadable documents.
package formatter

import (
	"fmt"

	"github.com/edurag/knowledge-backend/internal/entity"
)

const baseTitle = "チャット記録"

// Transcript is one question/answer exchange to export.
type Transcript struct {
	Question string
	Answer   string
}

type Formatter interface {
	Format(t Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

package ingest

import (
	"context"

	"github.com/edurag/knowledge-backend/internal/entity"
)

type SheetSource interface {
	MultipleSheets(ctx context.Context, sheetNames []string) (map[string][]entity.SourceRow, error)
}

type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

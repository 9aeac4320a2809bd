package chat

import (
	"context"

	"github.com/edurag/knowledge-backend/internal/entity"
)

type ChatUsecase interface {
	Ask(ctx context.Context, question string, category entity.Category, maxResults int) (*entity.Answer, error)
	Search(ctx context.Context, query string, category entity.Category, limit int) ([]entity.ScoredMatch, error)
	ModelInfo(ctx context.Context) (*entity.ModelInfoResponse, error)
}

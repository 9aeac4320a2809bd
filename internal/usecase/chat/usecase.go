// Package chat answers user questions over the knowledge base: embed the
// question, retrieve and re-rank matches, then generate a grounded answer.
package chat

import (
	"context"
	"fmt"

	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/rank"
	"github.com/edurag/knowledge-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const sourcePreviewLength = 100

// noKnowledgeAnswer is returned when retrieval finds nothing above the
// similarity threshold. This is a normal outcome, not an error.
const noKnowledgeAnswer = "申し訳ございません。ご質問に関連する情報が見つかりませんでした。別の質問をお試しください。"

// ChatUsecase implements question answering business logic
type ChatUsecase struct {
	config        config.ChatConfig
	embedder      Embedder
	generator     Generator
	catalog       ModelCatalog
	knowledgeRepo repository.KnowledgeRepository
	logger        *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	cfg config.ChatConfig,
	embedder Embedder,
	generator Generator,
	catalog ModelCatalog,
	knowledgeRepo repository.KnowledgeRepository,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		config:        cfg,
		embedder:      embedder,
		generator:     generator,
		catalog:       catalog,
		knowledgeRepo: knowledgeRepo,
		logger:        logger,
	}
}

// Ask answers one question. Retrieval over-fetches candidates, re-ranks
// them by section and type priority, and feeds the winners to the
// generation model. An empty match set short-circuits to a fixed
// no-knowledge answer without calling the generator.
func (uc *ChatUsecase) Ask(ctx context.Context, question string, category entity.Category, maxResults int) (*entity.Answer, error) {
	matches, err := uc.retrieve(ctx, question, category, maxResults)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		ctxzap.Info(ctx, "no knowledge matches for question")
		return &entity.Answer{
			Text:         noKnowledgeAnswer,
			Sources:      []entity.AnswerSource{},
			HasKnowledge: false,
		}, nil
	}

	prompt := buildPrompt(question, matches)

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]entity.AnswerSource, 0, len(matches))
	for _, match := range matches {
		sources = append(sources, entity.AnswerSource{
			SheetName:      match.Metadata.SheetName,
			Section:        match.Metadata.Section,
			Type:           match.Metadata.Type,
			Similarity:     match.Similarity,
			ContentPreview: preview(match.Content, sourcePreviewLength),
		})
	}

	ctxzap.Info(ctx, "answer generated",
		zap.Int("sources", len(sources)),
		zap.Float64("top_similarity", matches[0].Similarity),
	)

	return &entity.Answer{
		Text:         text,
		Sources:      sources,
		HasKnowledge: true,
	}, nil
}

// Search runs retrieval and re-ranking without generation.
func (uc *ChatUsecase) Search(ctx context.Context, query string, category entity.Category, limit int) ([]entity.ScoredMatch, error) {
	return uc.retrieve(ctx, query, category, limit)
}

// ModelInfo reports the generation model currently in use.
func (uc *ChatUsecase) ModelInfo(ctx context.Context) (*entity.ModelInfoResponse, error) {
	if model, ok := uc.catalog.Current(); ok {
		return &entity.ModelInfoResponse{Model: model, Cached: true}, nil
	}
	return &entity.ModelInfoResponse{Model: uc.catalog.GenerationModel(ctx), Cached: false}, nil
}

func (uc *ChatUsecase) retrieve(ctx context.Context, query string, category entity.Category, limit int) ([]entity.ScoredMatch, error) {
	if limit <= 0 {
		limit = uc.config.MaxResults
	}

	embedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidateCount := limit * uc.config.CandidateFactor
	matches, err := uc.knowledgeRepo.Search(ctx, embedding, uc.config.MatchThreshold, candidateCount, category)
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", err)
	}

	ctxzap.Debug(ctx, "retrieved candidates",
		zap.Int("candidates", len(matches)),
		zap.Int("limit", limit),
	)

	return rank.Rerank(matches, limit), nil
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

package gemini

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/edurag/knowledge-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector is a stand-in for local development without API access.
// Embeddings are deterministic functions of the input text so repeated
// runs behave consistently.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	logger.Info("using mock Gemini connector")
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, entity.ErrEmptyEmbeddingInput
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, entity.EmbeddingDimension)
	for i := range embedding {
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(math.Sin(float64(seed % 10007)))
	}
	return embedding, nil
}

func (m *MockConnector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for _, text := range texts {
		embedding, err := m.Embed(ctx, text)
		if err != nil {
			embedding = make([]float32, entity.EmbeddingDimension)
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}

func (m *MockConnector) Generate(_ context.Context, prompt string) (string, error) {
	m.logger.Debug("mock answer generation", zap.Int("prompt_length", len(prompt)))
	return "（モック応答）参考情報に基づく回答がここに入ります。", nil
}

// MockCatalog reports a fixed generation model.
type MockCatalog struct {
	Model string
}

func (m *MockCatalog) GenerationModel(_ context.Context) string {
	return m.Model
}

func (m *MockCatalog) Current() (string, bool) {
	return m.Model, true
}

package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	generationTemperature     = 0.7
	generationMaxOutputTokens = 2048
)

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces an answer for the prompt using the currently selected
// generation model.
func (c *Connector) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.catalog.GenerationModel(ctx)
	endpoint := fmt.Sprintf("/models/%s:generateContent", model)

	ctxzap.Debug(ctx, "generating answer",
		zap.String("model", model),
		zap.Int("prompt_length", len(prompt)),
	)

	req := generateRequest{
		Contents: []content{{Parts: []contentPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     generationTemperature,
			MaxOutputTokens: generationMaxOutputTokens,
		},
	}

	var resp generateResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return "", wrapAPIError(err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", entity.ErrEmptyGeneration
	}

	answer := resp.Candidates[0].Content.Parts[0].Text
	if answer == "" {
		return "", entity.ErrEmptyGeneration
	}

	return answer, nil
}

// Package gemini integrates with the Google Gemini REST API for text
// embedding and answer generation.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/entity"
	pkghttp "github.com/edurag/knowledge-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.GeminiConfig
	connector *pkghttp.Connector
	catalog   *ModelCatalog
	logger    *zap.Logger
}

func NewConnector(cfg config.GeminiConfig, logger *zap.Logger) *Connector {
	connector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnTimeout(cfg.ConnTimeout),
		pkghttp.WithKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAPIKey(cfg.APIKey),
	)

	return &Connector{
		config:    cfg,
		connector: connector,
		catalog:   NewModelCatalog(cfg, connector, logger),
		logger:    logger,
	}
}

// Catalog exposes the generation model catalog.
func (c *Connector) Catalog() *ModelCatalog {
	return c.catalog
}

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// Embed generates the embedding vector for a single text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, entity.ErrEmptyEmbeddingInput
	}

	endpoint := fmt.Sprintf("/models/%s:embedContent", c.config.EmbeddingModel)
	req := embedRequest{
		Model:   "models/" + c.config.EmbeddingModel,
		Content: content{Parts: []contentPart{{Text: text}}},
	}

	var resp embedResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	if len(resp.Embedding.Values) != entity.EmbeddingDimension {
		return nil, fmt.Errorf("%w: got %d values", entity.ErrEmbeddingDimension, len(resp.Embedding.Values))
	}

	return resp.Embedding.Values, nil
}

// EmbedBatch generates embeddings for many texts, respecting the API
// batch-size bound and pausing between batches to stay under rate limits.
// When a whole batch fails, each item is retried individually; items that
// still fail get a zero-vector placeholder so one bad chunk never aborts
// an ingestion run.
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))
	failed := 0

	for start := 0; start < len(texts); start += c.config.BatchSize {
		end := start + c.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		ctxzap.Debug(ctx, "embedding batch",
			zap.Int("from", start),
			zap.Int("size", len(batch)),
			zap.Int("total", len(texts)),
		)

		embeddings, err := c.embedBatchOnce(ctx, batch)
		if err != nil {
			ctxzap.Warn(ctx, "batch embedding failed, retrying items individually",
				zap.Int("from", start),
				zap.Error(err),
			)
			embeddings, failed = c.embedItemsIndividually(ctx, batch, start, failed)
		}
		all = append(all, embeddings...)

		if end < len(texts) && c.config.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.BatchDelay):
			}
		}
	}

	if failed > 0 {
		ctxzap.Warn(ctx, "some embeddings could not be generated",
			zap.Int("failed", failed),
			zap.Int("total", len(texts)),
		)
	}

	return all, nil
}

func (c *Connector) embedBatchOnce(ctx context.Context, texts []string) ([][]float32, error) {
	endpoint := fmt.Sprintf("/models/%s:batchEmbedContents", c.config.EmbeddingModel)

	req := batchEmbedRequest{Requests: make([]embedRequest, 0, len(texts))}
	for _, text := range texts {
		if text == "" {
			// The API rejects empty parts.
			text = " "
		}
		req.Requests = append(req.Requests, embedRequest{
			Model:   "models/" + c.config.EmbeddingModel,
			Content: content{Parts: []contentPart{{Text: text}}},
		})
	}

	var resp batchEmbedResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("batch embedding response size mismatch: want %d, got %d", len(texts), len(resp.Embeddings))
	}

	embeddings := make([][]float32, 0, len(texts))
	for _, emb := range resp.Embeddings {
		embeddings = append(embeddings, emb.Values)
	}
	return embeddings, nil
}

// embedItemsIndividually is the fallback path after a failed batch: one
// request per item, zero vector for items that still fail.
func (c *Connector) embedItemsIndividually(ctx context.Context, texts []string, offset, failed int) ([][]float32, int) {
	embeddings := make([][]float32, 0, len(texts))

	for i, text := range texts {
		embedding, err := c.Embed(ctx, text)
		if err != nil {
			ctxzap.Error(ctx, "failed to embed item, substituting zero vector",
				zap.Int("index", offset+i),
				zap.Error(err),
			)
			embedding = make([]float32, entity.EmbeddingDimension)
			failed++
		}
		embeddings = append(embeddings, embedding)

		if i < len(texts)-1 && c.config.ItemDelay > 0 {
			select {
			case <-ctx.Done():
				return embeddings, failed
			case <-time.After(c.config.ItemDelay):
			}
		}
	}

	return embeddings, failed
}

package gemini

import (
	"context"
	"strings"

	"github.com/edurag/knowledge-backend/internal/config"
	pkghttp "github.com/edurag/knowledge-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// modelPriority orders generation models from most to least preferred.
// The first one available on the account wins.
var modelPriority = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-latest",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.0-flash-exp",
	"gemini-1.5-flash",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro",
	"gemini-pro",
}

const modelCacheKey = "generation-model"

// ModelCatalog selects the generation model to use and caches the choice.
// The cache is owned here, not package-global, and can be invalidated
// explicitly.
type ModelCatalog struct {
	config    config.GeminiConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewModelCatalog(cfg config.GeminiConfig, connector *pkghttp.Connector, logger *zap.Logger) *ModelCatalog {
	return &ModelCatalog{
		config:    cfg,
		connector: connector,
		cache:     gocache.New(cfg.ModelCacheTTL, cfg.ModelCacheTTL),
		logger:    logger,
	}
}

type modelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		DisplayName                string   `json:"displayName"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

// GenerationModel returns the model to use for answer generation, serving
// the cached selection while it is fresh.
func (mc *ModelCatalog) GenerationModel(ctx context.Context) string {
	if cached, ok := mc.cache.Get(modelCacheKey); ok {
		return cached.(string)
	}

	model := mc.selectBestModel(ctx)
	mc.cache.SetDefault(modelCacheKey, model)
	return model
}

// Current returns the cached model selection without triggering a fetch.
func (mc *ModelCatalog) Current() (string, bool) {
	cached, ok := mc.cache.Get(modelCacheKey)
	if !ok {
		return "", false
	}
	return cached.(string), true
}

// Invalidate clears the cached selection so the next request re-fetches
// the model list.
func (mc *ModelCatalog) Invalidate() {
	mc.cache.Delete(modelCacheKey)
}

func (mc *ModelCatalog) selectBestModel(ctx context.Context) string {
	available, err := mc.fetchAvailableModels(ctx)
	if err != nil || len(available) == 0 {
		ctxzap.Warn(ctx, "could not fetch model list, using default",
			zap.String("default", mc.config.DefaultModel),
			zap.Error(err),
		)
		return mc.config.DefaultModel
	}

	for _, preferred := range modelPriority {
		for _, model := range available {
			if strings.Contains(model, preferred) {
				ctxzap.Info(ctx, "selected generation model", zap.String("model", model))
				return model
			}
		}
	}

	ctxzap.Info(ctx, "no preferred model available, using first",
		zap.String("model", available[0]),
	)
	return available[0]
}

// fetchAvailableModels lists the models the account can call, keeping
// only those that support generateContent.
func (mc *ModelCatalog) fetchAvailableModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := mc.connector.Get(ctx, "/models", &resp); err != nil {
		return nil, wrapAPIError(err)
	}

	var available []string
	for _, model := range resp.Models {
		for _, method := range model.SupportedGenerationMethods {
			if method == "generateContent" {
				available = append(available, strings.TrimPrefix(model.Name, "models/"))
				break
			}
		}
	}

	return available, nil
}

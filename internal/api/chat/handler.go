package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/pkg/formatter"
	"github.com/edurag/knowledge-backend/internal/pkg/logger"
	"github.com/edurag/knowledge-backend/internal/pkg/response"
	"github.com/edurag/knowledge-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   ChatUsecase
	factory   *formatter.Factory
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, factory *formatter.Factory, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		factory:   factory,
		validator: validator,
	}
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateChat(&req); err != nil {
		ctxzap.Warn(ctx, "chat request validation failed", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctxzap.Info(ctx, "answering question",
		zap.Int("message_length", len(req.Message)),
		zap.String("category", req.Category),
	)

	answer, err := h.usecase.Ask(ctx, req.Message, entity.Category(req.Category), req.MaxResults)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toChatResponse(answer))
}

// Search handles POST /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Search")

	var req entity.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateSearch(&req); err != nil {
		ctxzap.Warn(ctx, "search request validation failed", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	matches, err := h.usecase.Search(ctx, req.Query, entity.Category(req.Category), req.Limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "search completed", zap.Int("results", len(matches)))

	response.Success(w, toSearchResponse(req.Query, matches))
}

// ModelInfo handles GET /model-info
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ModelInfo")

	info, err := h.usecase.ModelInfo(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, info)
}

// Export handles POST /chat/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Export")

	var req entity.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateExport(&req); err != nil {
		ctxzap.Warn(ctx, "export request validation failed", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := h.factory.Create(req.Format)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := f.Format(formatter.Transcript{
		Question: req.Message,
		Answer:   req.Answer,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to format transcript", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format document")
		return
	}

	ctxzap.Info(ctx, "transcript exported",
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(data)),
	)

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=chat%s", f.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidCategory),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField):
		ctxzap.Warn(ctx, "invalid request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		ctxzap.Error(ctx, "internal error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

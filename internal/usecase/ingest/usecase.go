// Package ingest drives the sheet-to-knowledge-base pipeline: fetch rows,
// chunk them, embed the chunks and store the records.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/edurag/knowledge-backend/internal/chunker"
	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/edurag/knowledge-backend/internal/integration/sheets"
	"github.com/edurag/knowledge-backend/internal/pkg/logger"
	"github.com/edurag/knowledge-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// IngestUsecase implements ingestion business logic
type IngestUsecase struct {
	category      entity.Category
	sheetSource   SheetSource
	embedder      Embedder
	knowledgeRepo repository.KnowledgeRepository
	chunker       *chunker.Chunker
	logger        *zap.Logger
}

// NewUsecase creates a new ingest use case
func NewUsecase(
	cfg config.IngestConfig,
	sheetSource SheetSource,
	embedder Embedder,
	knowledgeRepo repository.KnowledgeRepository,
	logger *zap.Logger,
) *IngestUsecase {
	return &IngestUsecase{
		category:      entity.Category(cfg.Category),
		sheetSource:   sheetSource,
		embedder:      embedder,
		knowledgeRepo: knowledgeRepo,
		chunker:       chunker.New(cfg.MaxTokens, cfg.ContextSize),
		logger:        logger,
	}
}

// Run ingests the requested sheet range into the knowledge base. Sheets
// fail independently: an error on one sheet is recorded in the report and
// ingestion continues with the next, so a long run is never lost to a
// single bad sheet.
func (uc *IngestUsecase) Run(ctx context.Context, req Request) (*Report, error) {
	if err := uc.category.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		Category:  uc.category,
		StartedAt: time.Now(),
	}

	if req.Purge {
		purged, err := uc.knowledgeRepo.DeleteByCategory(ctx, uc.category)
		if err != nil {
			return nil, fmt.Errorf("purge category %s: %w", uc.category, err)
		}
		report.PurgedCount = purged
		ctxzap.Info(ctx, "purged existing knowledge records",
			zap.String("category", string(uc.category)),
			zap.Int64("purged", purged),
		)
	}

	sheetNames := sheets.GenerateSheetNames(req.StartSheet, req.EndSheet)
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: empty sheet range [%d, %d]", entity.ErrInvalidParameter, req.StartSheet, req.EndSheet)
	}

	ctxzap.Info(ctx, "starting ingestion",
		zap.String("category", string(uc.category)),
		zap.Int("sheets", len(sheetNames)),
	)

	rowsBySheet, err := uc.sheetSource.MultipleSheets(ctx, sheetNames)
	if err != nil {
		return nil, fmt.Errorf("fetch sheets: %w", err)
	}

	var allChunks []entity.Chunk

	for _, sheetName := range sheetNames {
		sheetCtx := logger.WithSheet(ctx, sheetName)
		sheetReport := SheetReport{SheetName: sheetName}

		rows, ok := rowsBySheet[sheetName]
		if !ok {
			sheetReport.Error = "sheet could not be fetched"
			report.FailedSheets++
			report.Sheets = append(report.Sheets, sheetReport)
			continue
		}
		sheetReport.Rows = len(rows)
		report.TotalRows += len(rows)

		chunks := uc.chunker.FromSheet(rows, sheetName)
		sheetReport.Chunks = len(chunks)
		report.TotalChunks += len(chunks)

		if len(chunks) == 0 {
			report.Sheets = append(report.Sheets, sheetReport)
			continue
		}

		stored, err := uc.storeChunks(sheetCtx, sheetName, chunks)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			ctxzap.Error(sheetCtx, "failed to store sheet, skipping", zap.Error(err))
			sheetReport.Error = err.Error()
			report.FailedSheets++
			report.Sheets = append(report.Sheets, sheetReport)
			continue
		}

		sheetReport.Stored = stored
		report.TotalStored += stored
		report.Sheets = append(report.Sheets, sheetReport)
		allChunks = append(allChunks, chunks...)
	}

	report.SourceStats = sheets.ComputeStats(rowsBySheet)
	report.ChunkStats = chunker.ComputeStats(allChunks)

	total, err := uc.knowledgeRepo.CountByCategory(ctx, uc.category)
	if err != nil {
		// The ingested data is already committed; a failed count only
		// degrades the report.
		ctxzap.Warn(ctx, "failed to count category records", zap.Error(err))
	} else {
		report.CategoryTotal = total
	}

	report.FinishedAt = time.Now()

	ctxzap.Info(ctx, "ingestion finished",
		zap.Int("total_rows", report.TotalRows),
		zap.Int("total_chunks", report.TotalChunks),
		zap.Int("total_stored", report.TotalStored),
		zap.Int("failed_sheets", report.FailedSheets),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)

	return report, nil
}

// storeChunks embeds one sheet's chunks and writes them as a batch.
func (uc *IngestUsecase) storeChunks(ctx context.Context, sheetName string, chunks []entity.Chunk) (int, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]entity.KnowledgeRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = entity.KnowledgeRecord{
			ID:        uuid.New().String(),
			Category:  uc.category,
			SheetName: sheetName,
			RowNumber: i + 1,
			Content:   chunk.Content,
			Context:   chunk.Context,
			Metadata:  chunk.Metadata,
			Embedding: embeddings[i],
		}
	}

	if err := uc.knowledgeRepo.InsertBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("store records: %w", err)
	}

	return len(records), nil
}

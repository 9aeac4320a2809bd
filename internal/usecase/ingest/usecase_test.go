package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSheetSource struct {
	data map[string][]entity.SourceRow
}

func (s *stubSheetSource) MultipleSheets(_ context.Context, sheetNames []string) (map[string][]entity.SourceRow, error) {
	results := make(map[string][]entity.SourceRow)
	for _, name := range sheetNames {
		if rows, ok := s.data[name]; ok {
			results[name] = rows
		}
	}
	return results, nil
}

type stubEmbedder struct {
	err   error
	calls int
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{float32(i)}
	}
	return embeddings, nil
}

type stubRepo struct {
	inserted  []entity.KnowledgeRecord
	insertErr error
	deleted   int64
	purged    bool
	countErr  error
}

func (s *stubRepo) InsertBatch(_ context.Context, records []entity.KnowledgeRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, records...)
	return nil
}

func (s *stubRepo) Search(_ context.Context, _ []float32, _ float64, _ int, _ entity.Category) ([]entity.KnowledgeMatch, error) {
	return nil, nil
}

func (s *stubRepo) DeleteByCategory(_ context.Context, _ entity.Category) (int64, error) {
	s.purged = true
	return s.deleted, nil
}

func (s *stubRepo) CountByCategory(_ context.Context, _ entity.Category) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.inserted)), nil
}

func testSource() *stubSheetSource {
	return &stubSheetSource{data: map[string][]entity.SourceRow{
		"M6CH01001": {
			{MessageID: "1", Section: "Intro", Type: "description", Contents: "このコースではマーケティングの基礎を学びます。"},
			{MessageID: "2", Section: "Lecture", Type: "article", Contents: "顧客価値とは便益とコストの差のことです。"},
		},
		"M6CH01002": {
			{MessageID: "1", Section: "Lecture", Type: "article", Contents: "セグメンテーションとは市場を分けることです。"},
		},
	}}
}

func testIngestConfig() config.IngestConfig {
	return config.IngestConfig{
		Category:    "BtoB",
		MaxTokens:   500,
		ContextSize: 1,
	}
}

func TestRunIngestsSheets(t *testing.T) {
	repo := &stubRepo{}
	uc := NewUsecase(testIngestConfig(), testSource(), &stubEmbedder{}, repo, zap.NewNop())

	report, err := uc.Run(context.Background(), Request{StartSheet: 1, EndSheet: 2})

	require.NoError(t, err)
	assert.Equal(t, entity.CategoryBtoB, report.Category)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 3, report.TotalChunks)
	assert.Equal(t, 3, report.TotalStored)
	assert.Zero(t, report.FailedSheets)
	assert.Equal(t, int64(3), report.CategoryTotal)
	require.Len(t, repo.inserted, 3)

	first := repo.inserted[0]
	assert.Equal(t, entity.CategoryBtoB, first.Category)
	assert.Equal(t, "M6CH01001", first.SheetName)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.Embedding)
}

func TestRunRejectsInvalidCategory(t *testing.T) {
	cfg := testIngestConfig()
	cfg.Category = ""
	uc := NewUsecase(cfg, testSource(), &stubEmbedder{}, &stubRepo{}, zap.NewNop())

	_, err := uc.Run(context.Background(), Request{StartSheet: 1, EndSheet: 1})

	require.ErrorIs(t, err, entity.ErrInvalidCategory)
}

func TestRunPurge(t *testing.T) {
	repo := &stubRepo{deleted: 42}
	uc := NewUsecase(testIngestConfig(), testSource(), &stubEmbedder{}, repo, zap.NewNop())

	report, err := uc.Run(context.Background(), Request{StartSheet: 1, EndSheet: 1, Purge: true})

	require.NoError(t, err)
	assert.True(t, repo.purged)
	assert.Equal(t, int64(42), report.PurgedCount)
}

func TestRunReportsMissingSheets(t *testing.T) {
	repo := &stubRepo{}
	uc := NewUsecase(testIngestConfig(), testSource(), &stubEmbedder{}, repo, zap.NewNop())

	// Sheets 3 and 4 are not in the stub corpus.
	report, err := uc.Run(context.Background(), Request{StartSheet: 1, EndSheet: 4})

	require.NoError(t, err)
	assert.Equal(t, 2, report.FailedSheets)
	assert.Equal(t, 3, report.TotalStored)
	require.Len(t, report.Sheets, 4)
	assert.Equal(t, "sheet could not be fetched", report.Sheets[2].Error)
}

func TestRunContinuesAfterStoreFailure(t *testing.T) {
	repo := &stubRepo{insertErr: errors.New("db down")}
	uc := NewUsecase(testIngestConfig(), testSource(), &stubEmbedder{}, repo, zap.NewNop())

	report, err := uc.Run(context.Background(), Request{StartSheet: 1, EndSheet: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, report.FailedSheets)
	assert.Zero(t, report.TotalStored)
	for _, sheet := range report.Sheets {
		assert.Contains(t, sheet.Error, "db down")
	}
}

func TestRunSurvivesCountFailure(t *testing.T) {
	repo := &stubRepo{countErr: errors.New("db down")}
	uc := NewUsecase(testIngestConfig(), testSource(), &stubEmbedder{}, repo, zap.NewNop())

	report, err := uc.Run(context.Background(), Request{StartSheet: 1, EndSheet: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalStored)
	assert.Zero(t, report.CategoryTotal)
}

func TestRunEmptyRange(t *testing.T) {
	uc := NewUsecase(testIngestConfig(), testSource(), &stubEmbedder{}, &stubRepo{}, zap.NewNop())

	_, err := uc.Run(context.Background(), Request{StartSheet: 10, EndSheet: 5})

	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}

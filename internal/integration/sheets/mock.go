package sheets

import (
	"context"

	"github.com/edurag/knowledge-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector serves a fixed two-sheet corpus for local development.
type MockConnector struct {
	logger *zap.Logger
	data   map[string][]entity.SourceRow
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	logger.Info("using mock Sheets connector")
	return &MockConnector{
		logger: logger,
		data: map[string][]entity.SourceRow{
			"M6CH01001": {
				{MessageID: "1", Section: "Intro", Type: "description", Contents: "このコースではマーケティングの基礎を学びます。"},
				{MessageID: "2", Section: "Lecture", Type: "article", Contents: "顧客価値とは、顧客が製品やサービスから得る便益と、支払うコストの差のことです。"},
				{MessageID: "3", Section: "Lecture", Type: "survey", Contents: "最も重要だと思う要素はどれですか。", Choices: "A. 価格\nB. 品質\nC. ブランド", CorrectAnswer: "B"},
				{MessageID: "4", Section: "Outro", Type: "text", Contents: "本章のまとめです。顧客価値の考え方を押さえましょう。"},
			},
			"M6CH01002": {
				{MessageID: "1", Section: "Intro", Type: "description", Contents: "この章では市場セグメンテーションを扱います。"},
				{MessageID: "2", Section: "Lecture", Type: "article", Contents: "セグメンテーションとは市場を共通のニーズを持つ集団に分けることです。"},
			},
		},
	}
}

func (m *MockConnector) SheetNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	return names, nil
}

func (m *MockConnector) SheetRows(_ context.Context, sheetName string) ([]entity.SourceRow, error) {
	rows, ok := m.data[sheetName]
	if !ok {
		return nil, entity.ErrSheetNotFound
	}
	return rows, nil
}

func (m *MockConnector) MultipleSheets(ctx context.Context, sheetNames []string) (map[string][]entity.SourceRow, error) {
	results := make(map[string][]entity.SourceRow, len(sheetNames))
	for _, name := range sheetNames {
		rows, err := m.SheetRows(ctx, name)
		if err != nil {
			continue
		}
		results[name] = rows
	}
	return results, nil
}

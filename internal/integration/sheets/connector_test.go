package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edurag/knowledge-backend/internal/config"
	"github.com/edurag/knowledge-backend/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sheetValues(headerAndData ...[]string) [][]string {
	// The first five rows of a sheet hold authoring metadata.
	values := [][]string{
		{"meta"}, {"meta"}, {"meta"}, {"meta"}, {"meta"},
	}
	return append(values, headerAndData...)
}

func TestParseRows(t *testing.T) {
	values := sheetValues(
		[]string{"Message ID", "Section", "Type", "Contents", "Choices", "Correct Answer"},
		[]string{"1", "Intro", "description", "導入の本文", "", ""},
		[]string{"2", "Lecture", "survey", "設問の本文", "A\nB", "A"},
	)

	rows := ParseRows(values)

	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].MessageID)
	assert.Equal(t, "Intro", rows[0].Section)
	assert.Equal(t, "description", rows[0].Type)
	assert.Equal(t, "導入の本文", rows[0].Contents)

	assert.Equal(t, "A\nB", rows[1].Choices)
	assert.Equal(t, "A", rows[1].CorrectAnswer)
}

func TestParseRowsFiltersIncompleteRows(t *testing.T) {
	values := sheetValues(
		[]string{"message_id", "contents"},
		[]string{"", "IDのない行"},
		[]string{"2", ""},
		[]string{"3", "有効な行"},
		[]string{"4"},
	)

	rows := ParseRows(values)

	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].MessageID)
}

func TestParseRowsHeaderNormalization(t *testing.T) {
	values := sheetValues(
		[]string{"MESSAGE ID", "CONTENTS"},
		[]string{"1", "本文"},
	)

	rows := ParseRows(values)

	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].MessageID)
	assert.Equal(t, "本文", rows[0].Contents)
}

func TestParseRowsShortSheet(t *testing.T) {
	assert.Nil(t, ParseRows(nil))
	assert.Nil(t, ParseRows([][]string{{"only"}, {"five"}, {"meta"}, {"rows"}, {"here"}}))
}

func TestGenerateSheetNames(t *testing.T) {
	all := GenerateSheetNames(1, TotalSheets)

	require.Len(t, all, TotalSheets)
	assert.Equal(t, "M6CH01001", all[0])
	assert.Equal(t, "M6CH01034", all[33])
	assert.Equal(t, "M6CH02001", all[34])
	assert.Equal(t, "M6CH06029", all[TotalSheets-1])
}

func TestGenerateSheetNamesRange(t *testing.T) {
	names := GenerateSheetNames(34, 36)

	require.Len(t, names, 3)
	assert.Equal(t, []string{"M6CH01034", "M6CH02001", "M6CH02002"}, names)
}

func TestGenerateSheetNamesOutOfBounds(t *testing.T) {
	assert.Len(t, GenerateSheetNames(0, 2), 2)
	assert.Empty(t, GenerateSheetNames(200, 300))
}

func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.SheetsConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			BaseURL:               srv.URL,
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: time.Second,
		},
		APIKey:        "test-key",
		SpreadsheetID: "spreadsheet",
		Retry:         retry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}

	return NewConnector(cfg, zap.NewNop())
}

// One failing sheet must not take down the rest of the fetch run.
func TestMultipleSheetsSkipsFailingSheet(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "M6CH01002") {
			http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
			return
		}
		values := sheetValues(
			[]string{"message_id", "contents"},
			[]string{"1", "本文"},
		)
		_ = json.NewEncoder(w).Encode(map[string]any{"values": values})
	})

	results, err := conn.MultipleSheets(context.Background(),
		[]string{"M6CH01001", "M6CH01002", "M6CH01003"})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotContains(t, results, "M6CH01002")
	require.Len(t, results["M6CH01001"], 1)
	assert.Equal(t, "本文", results["M6CH01001"][0].Contents)
	require.Len(t, results["M6CH01003"], 1)
}

func TestSheetRowsTypedError(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"quota exceeded"}}`, http.StatusForbidden)
	})

	_, err := conn.SheetRows(context.Background(), "M6CH01001")

	var sheetsErr *Error
	require.ErrorAs(t, err, &sheetsErr)
	assert.Equal(t, http.StatusForbidden, sheetsErr.Status)
	assert.Equal(t, "quota exceeded", sheetsErr.Message)
	assert.Equal(t, "M6CH01001", sheetsErr.SheetName)
}

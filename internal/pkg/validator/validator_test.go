package validator

import (
	"strings"
	"testing"

	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChat(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateChat(&entity.ChatRequest{Message: "質問"}))
	assert.NoError(t, v.ValidateChat(&entity.ChatRequest{Message: "質問", Category: "BtoB", MaxResults: 10}))

	require.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{Message: "  "}), entity.ErrMissingField)
	require.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{Message: strings.Repeat("あ", 2001)}), entity.ErrInvalidParameter)
	require.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{Message: "質問", MaxResults: 21}), entity.ErrInvalidParameter)
	require.ErrorIs(t, v.ValidateChat(&entity.ChatRequest{Message: "質問", Category: "B2B"}), entity.ErrInvalidParameter)
}

func TestValidateSearch(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateSearch(&entity.SearchRequest{Query: "検索", Category: "BtoC", Limit: 5}))

	require.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{Query: ""}), entity.ErrMissingField)
	require.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{Query: "検索", Limit: -1}), entity.ErrInvalidParameter)
	require.ErrorIs(t, v.ValidateSearch(&entity.SearchRequest{Query: "検索", Category: "btoc"}), entity.ErrInvalidParameter)
}

func TestValidateExport(t *testing.T) {
	v := New()

	assert.NoError(t, v.ValidateExport(&entity.ExportRequest{Answer: "回答", Format: entity.FormatPDF}))

	require.ErrorIs(t, v.ValidateExport(&entity.ExportRequest{Format: entity.FormatPDF}), entity.ErrMissingField)
	require.ErrorIs(t, v.ValidateExport(&entity.ExportRequest{Answer: "回答", Format: "html"}), entity.ErrInvalidParameter)
}

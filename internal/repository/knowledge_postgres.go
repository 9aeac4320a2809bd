package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/edurag/knowledge-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KnowledgeRepository defines the interface for knowledge base persistence
type KnowledgeRepository interface {
	InsertBatch(ctx context.Context, records []entity.KnowledgeRecord) error
	Search(ctx context.Context, embedding []float32, threshold float64, count int, category entity.Category) ([]entity.KnowledgeMatch, error)
	DeleteByCategory(ctx context.Context, category entity.Category) (int64, error)
	CountByCategory(ctx context.Context, category entity.Category) (int64, error)
}

var _ KnowledgeRepository = &KnowledgePostgres{}

// KnowledgePostgres implements KnowledgeRepository using PostgreSQL with
// the pgvector extension.
type KnowledgePostgres struct {
	db *pgxpool.Pool
}

func NewKnowledgePostgres(db *pgxpool.Pool) *KnowledgePostgres {
	return &KnowledgePostgres{db: db}
}

const insertKnowledgeSQL = `
INSERT INTO knowledge_base (id, category, sheet_name, row_number, content, context, metadata, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector)`

// InsertBatch persists records in a single pipelined batch.
func (r *KnowledgePostgres) InsertBatch(ctx context.Context, records []entity.KnowledgeRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, record := range records {
		id := record.ID
		if id == "" {
			id = uuid.New().String()
		}

		metadata, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", record.Metadata.MessageID, err)
		}

		batch.Queue(insertKnowledgeSQL,
			id,
			string(record.Category),
			record.SheetName,
			record.RowNumber,
			record.Content,
			record.Context,
			metadata,
			encodeVector(record.Embedding),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert knowledge record: %w", err)
		}
	}

	return nil
}

const searchKnowledgeSQL = `
SELECT id, category, content, context, metadata, similarity
FROM match_knowledge($1::vector, $2, $3, $4)`

// Search runs cosine similarity search through the match_knowledge SQL
// function. An empty category searches all corpora.
func (r *KnowledgePostgres) Search(ctx context.Context, embedding []float32, threshold float64, count int, category entity.Category) ([]entity.KnowledgeMatch, error) {
	var categoryArg *string
	if category != "" {
		s := string(category)
		categoryArg = &s
	}

	rows, err := r.db.Query(ctx, searchKnowledgeSQL, encodeVector(embedding), threshold, count, categoryArg)
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", err)
	}
	defer rows.Close()

	var matches []entity.KnowledgeMatch
	for rows.Next() {
		var (
			match       entity.KnowledgeMatch
			categoryStr string
			context     *string
			metadata    []byte
		)
		if err := rows.Scan(&match.ID, &categoryStr, &match.Content, &context, &metadata, &match.Similarity); err != nil {
			return nil, fmt.Errorf("scan knowledge match: %w", err)
		}

		match.Category = entity.Category(categoryStr)
		if context != nil {
			match.Context = *context
		}
		if err := json.Unmarshal(metadata, &match.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal match metadata: %w", err)
		}

		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge matches: %w", err)
	}

	return matches, nil
}

// DeleteByCategory removes all records of one corpus, typically before a
// full re-ingestion.
func (r *KnowledgePostgres) DeleteByCategory(ctx context.Context, category entity.Category) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM knowledge_base WHERE category = $1`, string(category))
	if err != nil {
		return 0, fmt.Errorf("delete knowledge by category: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *KnowledgePostgres) CountByCategory(ctx context.Context, category entity.Category) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_base WHERE category = $1`, string(category)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count knowledge by category: %w", err)
	}
	return count, nil
}

// encodeVector renders an embedding in pgvector's text format, e.g.
// [0.1,0.2,0.3].
func encodeVector(embedding []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

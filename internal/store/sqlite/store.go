// Package sqlite implements the summary store on SQLite using the
// pure-Go driver. Similarity search is a brute-force cosine scan over
// all stored embeddings, which is the right tradeoff at feedback-corpus
// scale (hundreds to low thousands of summaries).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/haasonsaas/verbatim/internal/store"
	"github.com/haasonsaas/verbatim/pkg/models"
)

const defaultSearchLimit = 5

// Store implements store.SummaryStore on SQLite.
type Store struct {
	db *sql.DB
}

var _ store.SummaryStore = (*Store)(nil)

// Config contains configuration for the SQLite store.
type Config struct {
	// Path to the database file; ":memory:" for an in-memory store.
	Path string
}

// New opens (and if needed creates) the summary database.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = ":memory:"
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS summaries (
			id TEXT PRIMARY KEY,
			record_id TEXT NOT NULL,
			content TEXT NOT NULL,
			record_content TEXT NOT NULL,
			embedding BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create summaries table: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_summaries_record ON summaries(record_id)`)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// AddSummaries stores summaries with their embeddings in one transaction.
func (s *Store) AddSummaries(ctx context.Context, summaries []*store.Summary) error {
	if len(summaries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			_ = err
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO summaries (id, record_id, content, record_content, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, summary := range summaries {
		if summary.ID == "" {
			summary.ID = uuid.New().String()
		}
		createdAt := summary.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := stmt.ExecContext(ctx,
			summary.ID,
			summary.RecordID,
			summary.Content,
			summary.RecordContent,
			encodeEmbedding(summary.Embedding),
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("insert summary %s: %w", summary.ID, err)
		}
	}
	return tx.Commit()
}

// Search ranks all stored summaries by cosine similarity.
func (s *Store) Search(ctx context.Context, req *models.SearchRequest, embedding []float32) (*models.SearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record_id, content, record_content, embedding FROM summaries`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var results []*models.SearchResult
	for rows.Next() {
		var result models.SearchResult
		var blob []byte
		if err := rows.Scan(&result.SummaryID, &result.RecordID, &result.Content, &result.RecordContent, &blob); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result.Score = cosineSimilarity(embedding, decodeEmbedding(blob))
		if req.Threshold > 0 && result.Score < req.Threshold {
			continue
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return &models.SearchResponse{Results: results}, nil
}

// Count returns the number of stored summaries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM summaries`).Scan(&count)
	return count, err
}

// Close releases resources.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeEmbedding converts []float32 to little-endian bytes for storage.
func encodeEmbedding(embedding []float32) []byte {
	if len(embedding) == 0 {
		return nil
	}
	data := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		bits := math.Float32bits(f)
		data[i*4] = byte(bits)
		data[i*4+1] = byte(bits >> 8)
		data[i*4+2] = byte(bits >> 16)
		data[i*4+3] = byte(bits >> 24)
	}
	return data
}

// decodeEmbedding converts stored bytes back to []float32.
func decodeEmbedding(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	embedding := make([]float32, len(data)/4)
	for i := range embedding {
		bits := uint32(data[i*4]) |
			uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 |
			uint32(data[i*4+3])<<24
		embedding[i] = math.Float32frombits(bits)
	}
	return embedding
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Package index coordinates the feedback indexing pipeline: loading
// summary/record pairs, embedding summaries, and storing them for
// semantic search.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/haasonsaas/verbatim/internal/corpus"
	"github.com/haasonsaas/verbatim/internal/embeddings"
	"github.com/haasonsaas/verbatim/internal/store"
	"github.com/haasonsaas/verbatim/pkg/models"
)

// Manager coordinates embedding and storage of feedback summaries.
type Manager struct {
	store    store.SummaryStore
	embedder embeddings.Provider
	config   *Config
}

// Config contains configuration for the index manager.
type Config struct {
	// EmbeddingBatchSize is the maximum texts per embedding batch.
	// Default: 64
	EmbeddingBatchSize int `yaml:"embedding_batch_size"`

	// TopK is the default number of search results.
	// Default: 5
	TopK int `yaml:"top_k"`

	// Threshold is the minimum similarity score for search results.
	Threshold float32 `yaml:"threshold"`
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingBatchSize: 64,
		TopK:               5,
	}
}

// NewManager creates a new index manager.
func NewManager(summaryStore store.SummaryStore, embedder embeddings.Provider, cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.EmbeddingBatchSize <= 0 {
		cfg.EmbeddingBatchSize = 64
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	return &Manager{store: summaryStore, embedder: embedder, config: cfg}
}

// IndexResult contains the result of an indexing run.
type IndexResult struct {
	// Indexed is the number of summaries stored.
	Indexed int

	// Skipped is the number of pairs dropped for missing content.
	Skipped int

	// Duration is the total indexing time.
	Duration time.Duration
}

// IndexDir loads all summary/record pairs under dataDir, embeds the
// summary texts in batches, and stores them. Pairs without usable
// content are skipped, not errors.
func (m *Manager) IndexDir(ctx context.Context, dataDir string) (*IndexResult, error) {
	start := time.Now()

	pairs, err := corpus.LoadPairs(dataDir)
	if err != nil {
		return nil, err
	}

	summaries := make([]*store.Summary, 0, len(pairs))
	skipped := 0
	for _, pair := range pairs {
		content := pair.Summary.Content()
		recordID := pair.Summary.RecordID()
		if recordID == "" {
			recordID = pair.Record.ID
		}
		if content == "" || recordID == "" {
			skipped++
			continue
		}
		summaries = append(summaries, &store.Summary{
			ID:            pair.SummaryID,
			RecordID:      recordID,
			Content:       content,
			RecordContent: pair.Record.Content(),
		})
	}

	if err := m.embedSummaries(ctx, summaries); err != nil {
		return nil, err
	}
	if err := m.store.AddSummaries(ctx, summaries); err != nil {
		return nil, fmt.Errorf("store summaries: %w", err)
	}

	return &IndexResult{
		Indexed:  len(summaries),
		Skipped:  skipped,
		Duration: time.Since(start),
	}, nil
}

// embedSummaries generates embeddings in batches.
func (m *Manager) embedSummaries(ctx context.Context, summaries []*store.Summary) error {
	if len(summaries) == 0 || m.embedder == nil {
		return nil
	}

	batchSize := m.embedder.MaxBatchSize()
	if m.config.EmbeddingBatchSize > 0 && m.config.EmbeddingBatchSize < batchSize {
		batchSize = m.config.EmbeddingBatchSize
	}

	for i := 0; i < len(summaries); i += batchSize {
		end := i + batchSize
		if end > len(summaries) {
			end = len(summaries)
		}
		batch := summaries[i:end]

		texts := make([]string, len(batch))
		for j, summary := range batch {
			texts[j] = summary.Content
		}
		vectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed batch %d: got %d vectors for %d texts", i/batchSize, len(vectors), len(batch))
		}
		for j, summary := range batch {
			summary.Embedding = vectors[j]
		}
	}
	return nil
}

// Search embeds the query and ranks stored summaries against it.
func (m *Manager) Search(ctx context.Context, query string) ([]*models.SearchResult, error) {
	queryEmbedding, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	resp, err := m.store.Search(ctx, &models.SearchRequest{
		Query:     query,
		Limit:     m.config.TopK,
		Threshold: m.config.Threshold,
	}, queryEmbedding)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Count returns the number of indexed summaries.
func (m *Manager) Count(ctx context.Context) (int64, error) {
	return m.store.Count(ctx)
}

// Close releases store resources.
func (m *Manager) Close() error {
	return m.store.Close()
}

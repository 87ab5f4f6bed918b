// Package store provides storage interfaces for indexed feedback
// summaries and their embeddings.
package store

import (
	"context"
	"time"

	"github.com/haasonsaas/verbatim/pkg/models"
)

// Summary is one indexed feedback summary with its source record
// content carried alongside so search results need no second lookup.
type Summary struct {
	// ID is the summary identifier (the export directory name).
	ID string

	// RecordID is the feedback record this summary describes.
	RecordID string

	// Content is the summary text that gets embedded.
	Content string

	// RecordContent is the verbatim text of the source record.
	RecordContent string

	// Embedding is the summary's embedding vector.
	Embedding []float32

	// CreatedAt is when the summary was indexed.
	CreatedAt time.Time
}

// SummaryStore defines the interface for summary persistence and
// similarity search.
type SummaryStore interface {
	// AddSummaries stores summaries with their embeddings.
	// Existing summary ids are replaced.
	AddSummaries(ctx context.Context, summaries []*Summary) error

	// Search ranks stored summaries by cosine similarity to the
	// query embedding.
	Search(ctx context.Context, req *models.SearchRequest, embedding []float32) (*models.SearchResponse, error)

	// Count returns the number of stored summaries.
	Count(ctx context.Context) (int64, error)

	// Close releases resources.
	Close() error
}

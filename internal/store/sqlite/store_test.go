package sqlite

import (
	"context"
	"math"
	"testing"

	"github.com/haasonsaas/verbatim/internal/store"
	"github.com/haasonsaas/verbatim/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	summaries := []*store.Summary{
		{
			ID:            "sum_1",
			RecordID:      "rec_1",
			Content:       "crash reports",
			RecordContent: "the app crashes on upload",
			Embedding:     []float32{1, 0, 0},
		},
		{
			ID:            "sum_2",
			RecordID:      "rec_2",
			Content:       "praise for templates",
			RecordContent: "love the templates",
			Embedding:     []float32{0, 1, 0},
		},
	}
	if err := s.AddSummaries(ctx, summaries); err != nil {
		t.Fatalf("AddSummaries: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil || count != 2 {
		t.Fatalf("Count = %d, %v", count, err)
	}

	resp, err := s.Search(ctx, &models.SearchRequest{Query: "crashes", Limit: 1}, []float32{0.9, 0.1, 0})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d", len(resp.Results))
	}
	top := resp.Results[0]
	if top.SummaryID != "sum_1" || top.RecordID != "rec_1" {
		t.Fatalf("top = %+v", top)
	}
	if top.RecordContent != "the app crashes on upload" {
		t.Fatalf("record content missing from result: %+v", top)
	}
}

func TestSearchThreshold(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddSummaries(ctx, []*store.Summary{
		{ID: "sum_1", RecordID: "rec_1", Content: "a", RecordContent: "a", Embedding: []float32{1, 0}},
		{ID: "sum_2", RecordID: "rec_2", Content: "b", RecordContent: "b", Embedding: []float32{0, 1}},
	}); err != nil {
		t.Fatalf("AddSummaries: %v", err)
	}

	resp, err := s.Search(ctx, &models.SearchRequest{Threshold: 0.5}, []float32{1, 0})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].SummaryID != "sum_1" {
		t.Fatalf("results = %+v", resp.Results)
	}
}

func TestAddSummariesReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []*store.Summary{{ID: "sum_1", RecordID: "rec_1", Content: "old", RecordContent: "old", Embedding: []float32{1}}}
	if err := s.AddSummaries(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := []*store.Summary{{ID: "sum_1", RecordID: "rec_1", Content: "new", RecordContent: "new", Embedding: []float32{1}}}
	if err := s.AddSummaries(ctx, second); err != nil {
		t.Fatal(err)
	}

	count, _ := s.Count(ctx)
	if count != 1 {
		t.Fatalf("Count = %d after replace", count)
	}
	resp, err := s.Search(ctx, &models.SearchRequest{}, []float32{1})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results[0].Content != "new" {
		t.Fatalf("content = %q", resp.Results[0].Content)
	}
}

func TestEmbeddingRoundTrip(t *testing.T) {
	in := []float32{0.25, -1.5, 3.125, 0}
	out := decodeEmbedding(encodeEmbedding(in))
	if len(out) != len(in) {
		t.Fatalf("len = %d", len(out))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "length_mismatch", a: []float32{1}, b: []float32{1, 2}, want: 0},
		{name: "zero_vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

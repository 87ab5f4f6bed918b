package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haasonsaas/verbatim/internal/store/sqlite"
)

// hashEmbedder is a deterministic fake embedding provider.
type hashEmbedder struct{}

func (hashEmbedder) Name() string      { return "hash" }
func (hashEmbedder) Dimension() int    { return 3 }
func (hashEmbedder) MaxBatchSize() int { return 2 }

func (h hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	var sum float32
	for _, r := range text {
		sum += float32(r)
	}
	return []float32{sum, float32(len(text)), 1}, nil
}

func (h hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := h.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func writePair(t *testing.T, root, name, summaryContent, recordID, recordContent string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	summary := `{"id":"` + name + `","attributes":{"content":{"string":{"values":["` + summaryContent + `"]}},` +
		`"feedback_record_id":{"string":{"values":["` + recordID + `"]}}}}`
	record := `{"id":"` + recordID + `","attributes":{"content":{"string":{"values":["` + recordContent + `"]}}}}`
	if err := os.WriteFile(filepath.Join(dir, "feedback_summary.json"), []byte(summary), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "feedback_record.json"), []byte(record), 0o644); err != nil {
		t.Fatal(err)
	}
}

// shortEmbedder drops the last vector of every batch.
type shortEmbedder struct {
	hashEmbedder
}

func (s shortEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out, err := s.hashEmbedder.EmbedBatch(ctx, texts)
	if err != nil || len(out) == 0 {
		return out, err
	}
	return out[:len(out)-1], nil
}

func TestIndexDirShortEmbedBatchErrors(t *testing.T) {
	root := t.TempDir()
	writePair(t, root, "sum_1", "crash complaints on upload", "rec_1", "the app crashes on upload")
	writePair(t, root, "sum_2", "template praise", "rec_2", "love the templates")

	s, err := sqlite.New(sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	manager := NewManager(s, shortEmbedder{}, &Config{TopK: 2})
	if _, err := manager.IndexDir(context.Background(), root); err == nil {
		t.Fatal("expected error when the backend returns fewer vectors than texts")
	} else if !strings.Contains(err.Error(), "vectors") {
		t.Fatalf("err = %v", err)
	}
}

func TestIndexDirAndSearch(t *testing.T) {
	root := t.TempDir()
	writePair(t, root, "sum_1", "crash complaints on upload", "rec_1", "the app crashes on upload")
	writePair(t, root, "sum_2", "template praise", "rec_2", "love the templates")
	writePair(t, root, "sum_3", "", "rec_3", "empty summary content")

	s, err := sqlite.New(sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	manager := NewManager(s, hashEmbedder{}, &Config{EmbeddingBatchSize: 1, TopK: 2})

	result, err := manager.IndexDir(context.Background(), root)
	if err != nil {
		t.Fatalf("IndexDir: %v", err)
	}
	if result.Indexed != 2 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}

	count, err := manager.Count(context.Background())
	if err != nil || count != 2 {
		t.Fatalf("Count = %d, %v", count, err)
	}

	// The hash embedder maps identical text to identical vectors, so
	// searching with a stored summary's text returns it first.
	results, err := manager.Search(context.Background(), "crash complaints on upload")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 || results[0].RecordID != "rec_1" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].RecordContent != "the app crashes on upload" {
		t.Fatalf("record content = %q", results[0].RecordContent)
	}
}

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedBatch(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %s", req.Model)
		}
		_ = json.NewEncoder(w).Encode(embeddingResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	provider, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	results, err := provider.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(results) != 2 || len(results[0]) != 3 {
		t.Fatalf("results = %v", results)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want one request per text", calls)
	}
}

func TestEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider, _ := New(Config{BaseURL: server.URL})
	if _, err := provider.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

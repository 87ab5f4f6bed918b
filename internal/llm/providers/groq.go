package providers

import (
	"context"
	"errors"

	"github.com/haasonsaas/verbatim/internal/llm"
)

// groqBaseURL is Groq's OpenAI-compatible endpoint.
const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements llm.Provider for Groq's hosted open models.
// Groq exposes an OpenAI-compatible API, so this wraps the OpenAI
// provider with a different base URL and model catalog.
type GroqProvider struct {
	inner *OpenAIProvider
}

// GroqConfig holds configuration for the Groq provider.
type GroqConfig struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// DefaultModel is used when a request does not name a model.
	// Defaults to "llama-3.3-70b-versatile".
	DefaultModel string
}

// NewGroqProvider creates a new Groq provider instance.
func NewGroqProvider(cfg GroqConfig) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("groq: API key is required")
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "llama-3.3-70b-versatile"
	}
	inner, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      groqBaseURL,
		DefaultModel: cfg.DefaultModel,
	})
	if err != nil {
		return nil, err
	}
	return &GroqProvider{inner: inner}, nil
}

// Name returns the provider identifier.
func (p *GroqProvider) Name() string {
	return "groq"
}

// Models returns the list of supported Groq-hosted models.
func (p *GroqProvider) Models() []llm.Model {
	return []llm.Model{
		{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", ContextSize: 128000},
		{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B Instant", ContextSize: 128000},
		{ID: "qwen/qwen3-32b", Name: "Qwen3 32B", ContextSize: 131072},
		{ID: "gemma2-9b-it", Name: "Gemma 2 9B", ContextSize: 8192},
	}
}

// Complete sends a completion request through the OpenAI-compatible API.
func (p *GroqProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (<-chan *llm.CompletionChunk, error) {
	return p.inner.Complete(ctx, req)
}

// Package llm defines the provider interface for text-completion backends.
package llm

import "context"

// Provider defines the interface for LLM backends.
//
// Implementations handle the specifics of communicating with different
// completion APIs (OpenAI, Anthropic, Groq) while presenting a unified
// streaming interface. Implementations must be safe for concurrent use;
// multiple goroutines may call Complete simultaneously.
type Provider interface {
	// Complete sends a prompt and returns a streaming response.
	Complete(ctx context.Context, req *CompletionRequest) (<-chan *CompletionChunk, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []Model
}

// CompletionRequest contains all parameters for a completion request.
type CompletionRequest struct {
	// Model specifies which model to use (e.g., "gpt-4o").
	// If empty, the provider's default model is used.
	Model string `json:"model"`

	// System is the system prompt, handled separately from messages.
	System string `json:"system,omitempty"`

	// Messages contains the conversation in chronological order.
	// Must include at least one message.
	Messages []CompletionMessage `json:"messages"`

	// MaxTokens limits the generated response length.
	// If 0 or negative, the provider default is used.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls sampling randomness. The judge runs at 0
	// for deterministic decoding. Nil means the provider default.
	Temperature *float32 `json:"temperature,omitempty"`
}

// CompletionMessage represents a single message in a conversation.
// Role values: "user", "assistant".
type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

// CompletionChunk represents a single chunk in a streaming response.
//
// Chunks are delivered through a channel as the model generates its
// response. Token counts are only populated on the final chunk (when
// Done is true) and may be zero if the backend does not report usage.
type CompletionChunk struct {
	// Text contains partial response text.
	Text string `json:"text,omitempty"`

	// Done is true when the stream has completed successfully.
	Done bool `json:"done,omitempty"`

	// Error contains any error that occurred; the stream terminates.
	Error error `json:"-"`

	// InputTokens is the number of prompt tokens consumed.
	InputTokens int `json:"input_tokens,omitempty"`

	// OutputTokens is the number of completion tokens generated.
	OutputTokens int `json:"output_tokens,omitempty"`
}

// Model describes an available model.
type Model struct {
	// ID is the API identifier (e.g., "gpt-4o").
	ID string `json:"id"`

	// Name is the human-readable model name.
	Name string `json:"name"`

	// ContextSize is the maximum token context window.
	ContextSize int `json:"context_size"`
}

// Temperature is a convenience for building *float32 request fields.
func Temperature(t float32) *float32 {
	return &t
}

// CollectText drains a completion stream into a single string plus the
// final usage counts. It returns the first stream error encountered.
func CollectText(ch <-chan *CompletionChunk) (text string, inputTokens, outputTokens int, err error) {
	var sb []byte
	for chunk := range ch {
		if chunk == nil {
			continue
		}
		if chunk.Error != nil {
			return string(sb), inputTokens, outputTokens, chunk.Error
		}
		if chunk.Text != "" {
			sb = append(sb, chunk.Text...)
		}
		if chunk.InputTokens > 0 {
			inputTokens = chunk.InputTokens
		}
		if chunk.OutputTokens > 0 {
			outputTokens = chunk.OutputTokens
		}
		if chunk.Done {
			break
		}
	}
	return string(sb), inputTokens, outputTokens, nil
}

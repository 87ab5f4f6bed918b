// Package providers contains llm.Provider implementations for external
// completion APIs.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/haasonsaas/verbatim/internal/llm"
)

// OpenAIProvider implements llm.Provider for OpenAI's chat models.
//
// It streams completions and reports token usage on the final chunk
// via the stream_options include_usage flag. Transient failures when
// opening the stream (rate limits, 5xx) are retried with linear
// backoff; errors mid-stream terminate the channel.
//
// Safe for concurrent use; each Complete call creates an independent
// stream and goroutine.
type OpenAIProvider struct {
	client       *openai.Client
	defaultModel string
	maxRetries   int
	retryDelay   time.Duration
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API endpoint. Used for OpenAI-compatible
	// services; leave empty for api.openai.com.
	BaseURL string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(clientCfg),
		defaultModel: cfg.DefaultModel,
		maxRetries:   3,
		retryDelay:   time.Second,
	}, nil
}

// Name returns the provider identifier used for routing and logging.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Models returns the list of supported chat models.
func (p *OpenAIProvider) Models() []llm.Model {
	return []llm.Model{
		{ID: "gpt-4o", Name: "GPT-4o", ContextSize: 128000},
		{ID: "gpt-4o-mini", Name: "GPT-4o Mini", ContextSize: 128000},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ContextSize: 128000},
	}
}

// Complete sends a completion request and returns a streaming response channel.
func (p *OpenAIProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (<-chan *llm.CompletionChunk, error) {
	if p.client == nil {
		return nil, errors.New("openai: client not configured")
	}

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: convertMessages(req),
		Stream:   true,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
		if *req.Temperature == 0 {
			// go-openai treats 0 as unset; the API accepts the
			// near-zero value as deterministic decoding.
			chatReq.Temperature = 1e-8
		}
	}

	var stream *openai.ChatCompletionStream
	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.retryDelay * time.Duration(attempt)):
			}
		}
		stream, lastErr = p.client.CreateChatCompletionStream(ctx, chatReq)
		if lastErr == nil {
			break
		}
		if !isRetryableError(lastErr) {
			return nil, fmt.Errorf("openai: %w", lastErr)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("openai: max retries exceeded: %w", lastErr)
	}

	chunks := make(chan *llm.CompletionChunk)
	go p.processStream(ctx, stream, chunks)
	return chunks, nil
}

func (p *OpenAIProvider) processStream(ctx context.Context, stream *openai.ChatCompletionStream, chunks chan<- *llm.CompletionChunk) {
	defer close(chunks)
	defer stream.Close()

	var inputTokens, outputTokens int
	for {
		select {
		case <-ctx.Done():
			chunks <- &llm.CompletionChunk{Error: ctx.Err(), Done: true}
			return
		default:
		}

		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			chunks <- &llm.CompletionChunk{
				Done:         true,
				InputTokens:  inputTokens,
				OutputTokens: outputTokens,
			}
			return
		}
		if err != nil {
			chunks <- &llm.CompletionChunk{Error: err, Done: true}
			return
		}

		// The usage-bearing chunk has no choices and arrives last.
		if response.Usage != nil {
			inputTokens = response.Usage.PromptTokens
			outputTokens = response.Usage.CompletionTokens
		}
		for _, choice := range response.Choices {
			if choice.Delta.Content != "" {
				chunks <- &llm.CompletionChunk{Text: choice.Delta.Content}
			}
		}
	}
}

func convertMessages(req *llm.CompletionRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages
}

// isRetryableError classifies transport errors worth retrying: rate
// limits, server errors, and timeouts. Auth and validation failures
// are permanent.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "429", "500", "502", "503", "504", "timeout", "deadline exceeded", "connection reset"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

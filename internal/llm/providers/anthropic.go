package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/haasonsaas/verbatim/internal/llm"
)

const defaultAnthropicMaxTokens = 4096

// AnthropicProvider implements llm.Provider for Anthropic's Claude models.
// The SDK handles transient retries internally; streaming events are
// converted to llm.CompletionChunk values, with input tokens taken from
// message_start and output tokens from message_delta.
type AnthropicProvider struct {
	client       anthropic.Client
	defaultModel string
}

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL overrides the API endpoint (optional).
	BaseURL string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "claude-sonnet-4-20250514"
	}
	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicProvider{
		client:       anthropic.NewClient(options...),
		defaultModel: cfg.DefaultModel,
	}, nil
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Models returns the list of supported Claude models.
func (p *AnthropicProvider) Models() []llm.Model {
	return []llm.Model{
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", ContextSize: 200000},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ContextSize: 200000},
	}
}

// Complete sends a completion request and returns a streaming response channel.
func (p *AnthropicProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (<-chan *llm.CompletionChunk, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: int64(maxTokens),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	chunks := make(chan *llm.CompletionChunk)
	go p.processStream(stream, chunks)
	return chunks, nil
}

func (p *AnthropicProvider) processStream(stream *ssestream.Stream[anthropic.MessageStreamEventUnion], chunks chan<- *llm.CompletionChunk) {
	defer close(chunks)

	var inputTokens, outputTokens int
	for stream.Next() {
		event := stream.Current()
		switch event.Type {
		case "message_start":
			messageStart := event.AsMessageStart()
			if messageStart.Message.Usage.InputTokens > 0 {
				inputTokens = int(messageStart.Message.Usage.InputTokens)
			}
		case "content_block_delta":
			delta := event.AsContentBlockDelta().Delta
			if delta.Type == "text_delta" && delta.Text != "" {
				chunks <- &llm.CompletionChunk{Text: delta.Text}
			}
		case "message_delta":
			messageDelta := event.AsMessageDelta()
			if messageDelta.Usage.OutputTokens > 0 {
				outputTokens = int(messageDelta.Usage.OutputTokens)
			}
		case "message_stop":
			chunks <- &llm.CompletionChunk{
				Done:         true,
				InputTokens:  inputTokens,
				OutputTokens: outputTokens,
			}
			return
		case "error":
			chunks <- &llm.CompletionChunk{Error: errors.New("anthropic: stream error"), Done: true}
			return
		}
	}

	if err := stream.Err(); err != nil {
		chunks <- &llm.CompletionChunk{Error: err, Done: true}
	}
}

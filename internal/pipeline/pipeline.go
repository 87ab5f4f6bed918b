// Package pipeline turns a user question into a grounded answer: it
// retrieves relevant feedback, builds a mode-specific prompt, streams the
// model's completion, and records token usage and latency for the call.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/haasonsaas/verbatim/internal/cost"
	"github.com/haasonsaas/verbatim/internal/llm"
	"github.com/haasonsaas/verbatim/internal/observability"
	"github.com/haasonsaas/verbatim/pkg/models"
)

// Searcher is the retrieval side of the pipeline. *index.Manager
// satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*models.SearchResult, error)
}

// Options configure a Pipeline.
type Options struct {
	// Model overrides the provider's default model when non-empty.
	Model string

	// MaxTokens caps the answer length. Zero means the default.
	MaxTokens int

	// Temperature for answer generation. Nil leaves the provider
	// default in place.
	Temperature *float32

	// Metrics, when non-nil, records search latency and LLM usage.
	Metrics *observability.Metrics
}

const defaultMaxTokens = 1024

// Pipeline wires retrieval and generation together.
type Pipeline struct {
	searcher Searcher
	provider llm.Provider
	opts     Options
}

// Response is the outcome of a single query.
type Response struct {
	Query   string                 `json:"query"`
	Mode    Mode                   `json:"mode"`
	Answer  string                 `json:"answer"`
	Results []*models.SearchResult `json:"results,omitempty"`
	Cost    *cost.Record           `json:"cost,omitempty"`
}

// NoResultsAnswer is returned verbatim when retrieval finds nothing.
const NoResultsAnswer = "No relevant feedback found for your query."

// New creates a pipeline over the given retriever and provider.
func New(searcher Searcher, provider llm.Provider, opts Options) *Pipeline {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	return &Pipeline{searcher: searcher, provider: provider, opts: opts}
}

// Query retrieves context for the question and streams an answer. onChunk,
// when non-nil, is called with each text increment as it arrives so
// callers can render progressively. The returned Response always carries
// the full answer text; Cost is populated when the stream completes.
func (p *Pipeline) Query(ctx context.Context, query string, mode Mode, onChunk func(string)) (*Response, error) {
	searchStart := time.Now()
	results, err := p.searcher.Search(ctx, query)
	if p.opts.Metrics != nil {
		p.opts.Metrics.SearchDuration.Observe(time.Since(searchStart).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	resp := &Response{Query: query, Mode: mode, Results: results}
	if len(results) == 0 {
		resp.Answer = NoResultsAnswer
		if onChunk != nil {
			onChunk(resp.Answer)
		}
		return resp, nil
	}

	prompt := buildPrompt(query, results, mode)
	req := &llm.CompletionRequest{
		Model:       p.opts.Model,
		System:      systemPrompt,
		Messages:    []llm.CompletionMessage{{Role: "user", Content: prompt}},
		MaxTokens:   p.opts.MaxTokens,
		Temperature: p.opts.Temperature,
	}

	start := time.Now()
	ch, err := p.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	record := &cost.Record{
		Model: p.opts.Model,
		Mode:  string(mode),
		Query: query,
	}
	if record.Model == "" {
		record.Model = p.providerDefaultModel()
	}

	var answer string
	var ttft time.Duration
	for chunk := range ch {
		if chunk.Error != nil {
			if p.opts.Metrics != nil {
				p.opts.Metrics.RecordLLMRequest(p.provider.Name(), record.Model, "error",
					time.Since(start).Seconds(), 0, 0)
			}
			return nil, fmt.Errorf("stream: %w", chunk.Error)
		}
		if chunk.Text != "" {
			if ttft == 0 {
				ttft = time.Since(start)
			}
			answer += chunk.Text
			if onChunk != nil {
				onChunk(chunk.Text)
			}
		}
		if chunk.InputTokens > 0 {
			record.InputTokens = chunk.InputTokens
		}
		if chunk.OutputTokens > 0 {
			record.OutputTokens = chunk.OutputTokens
		}
	}

	record.TimeToFirstToken = ttft
	record.TotalTime = time.Since(start)
	if p.opts.Metrics != nil {
		p.opts.Metrics.RecordLLMRequest(p.provider.Name(), record.Model, "success",
			record.TotalTime.Seconds(), record.InputTokens, record.OutputTokens)
	}

	resp.Answer = answer
	resp.Cost = record
	return resp, nil
}

func (p *Pipeline) providerDefaultModel() string {
	available := p.provider.Models()
	if len(available) == 0 {
		return ""
	}
	return available[0].ID
}

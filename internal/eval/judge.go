package eval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/haasonsaas/verbatim/internal/llm"
)

const defaultJudgeMaxTokens = 256

const coherencePrompt = `You are evaluating an AI-generated answer that includes verbatim quotes from user feedback.

Rate the answer 1-5 for COHERENCE - how naturally quotes are woven into the prose.

- 5: Every quote directly supports the claim before it; prose flows naturally
- 4: Most quotes well-placed; minor awkwardness in one or two spots
- 3: Some quotes feel forced or loosely connected to surrounding prose
- 2: Quotes mostly disconnected from claims; hard to follow
- 1: Quotes dumped in with no connection to prose; incoherent

Query: %s

Answer:
%s

Respond in this exact format:
SCORE: <1-5>
REASONING: <one or two sentences>`

// CoherenceJudge scores quote integration quality using an LLM provider.
// The judge call runs at temperature zero and is optional at the
// evaluator level; omitting it skips coherence scoring entirely.
type CoherenceJudge struct {
	provider  llm.Provider
	model     string
	maxTokens int
}

// NewCoherenceJudge creates a judge bound to a provider and model.
// An empty model falls back to the provider's first listed model.
func NewCoherenceJudge(provider llm.Provider, model string) *CoherenceJudge {
	return &CoherenceJudge{
		provider:  provider,
		model:     model,
		maxTokens: defaultJudgeMaxTokens,
	}
}

// SetMaxTokens overrides the judge response token limit.
func (j *CoherenceJudge) SetMaxTokens(tokens int) {
	if tokens > 0 {
		j.maxTokens = tokens
	}
}

// Judge scores the answer's coherence 1-5 with one completion call.
//
// Malformed judge output is never an error: a response without a
// parseable SCORE line yields score 0 with best-effort reasoning.
// Transport failures propagate unchanged; the judge performs no
// retries of its own.
func (j *CoherenceJudge) Judge(ctx context.Context, query, answer string) (float64, string, error) {
	if j == nil || j.provider == nil {
		return 0, "", fmt.Errorf("coherence judge provider is nil")
	}
	req := &llm.CompletionRequest{
		Model: j.resolveModel(),
		Messages: []llm.CompletionMessage{{
			Role:    "user",
			Content: fmt.Sprintf(coherencePrompt, query, answer),
		}},
		MaxTokens:   j.maxTokens,
		Temperature: llm.Temperature(0),
	}
	ch, err := j.provider.Complete(ctx, req)
	if err != nil {
		return 0, "", err
	}
	text, _, _, err := llm.CollectText(ch)
	if err != nil {
		return 0, "", err
	}
	score, reasoning := parseJudgeResponse(text)
	return score, reasoning, nil
}

func (j *CoherenceJudge) resolveModel() string {
	if strings.TrimSpace(j.model) != "" {
		return strings.TrimSpace(j.model)
	}
	if models := j.provider.Models(); len(models) > 0 {
		return models[0].ID
	}
	return ""
}

// parseJudgeResponse scans lines for the SCORE and REASONING prefixes.
// Anything it cannot parse degrades to the zero value rather than an
// error; judge-model formatting is best effort.
func parseJudgeResponse(raw string) (score float64, reasoning string) {
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "SCORE:"):
			value := strings.TrimSpace(strings.TrimPrefix(line, "SCORE:"))
			if parsed, err := strconv.ParseFloat(value, 64); err == nil {
				score = parsed
			}
		case strings.HasPrefix(line, "REASONING:"):
			reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		}
	}
	return score, reasoning
}

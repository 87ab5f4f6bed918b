package eval

import (
	"context"
	"errors"
	"testing"

	"github.com/haasonsaas/verbatim/internal/llm"
)

// stubProvider returns a fixed response (or error) for every request.
type stubProvider struct {
	response string
	err      error
	lastReq  *llm.CompletionRequest
}

func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (<-chan *llm.CompletionChunk, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan *llm.CompletionChunk, 2)
	ch <- &llm.CompletionChunk{Text: s.response}
	ch <- &llm.CompletionChunk{Done: true, InputTokens: 10, OutputTokens: 5}
	close(ch)
	return ch, nil
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Models() []llm.Model {
	return []llm.Model{{ID: "stub-model", Name: "Stub"}}
}

func TestJudgeParsesWellFormedResponse(t *testing.T) {
	provider := &stubProvider{response: "SCORE: 4\nREASONING: flows well"}
	judge := NewCoherenceJudge(provider, "stub-model")
	score, reasoning, err := judge.Judge(context.Background(), "q", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 4.0 {
		t.Fatalf("score = %v, want 4", score)
	}
	if reasoning != "flows well" {
		t.Fatalf("reasoning = %q", reasoning)
	}
}

func TestJudgeMalformedResponseIsNotAnError(t *testing.T) {
	provider := &stubProvider{response: "I think this answer is quite good overall."}
	judge := NewCoherenceJudge(provider, "")
	score, reasoning, err := judge.Judge(context.Background(), "q", "a")
	if err != nil {
		t.Fatalf("malformed judge output must not error: %v", err)
	}
	if score != 0.0 || reasoning != "" {
		t.Fatalf("score = %v reasoning = %q, want sentinel zeros", score, reasoning)
	}
}

func TestJudgeTransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("connection refused")
	provider := &stubProvider{err: transportErr}
	judge := NewCoherenceJudge(provider, "stub-model")
	if _, _, err := judge.Judge(context.Background(), "q", "a"); !errors.Is(err, transportErr) {
		t.Fatalf("err = %v, want transport error", err)
	}
}

func TestJudgeRunsAtZeroTemperature(t *testing.T) {
	provider := &stubProvider{response: "SCORE: 3\nREASONING: ok"}
	judge := NewCoherenceJudge(provider, "")
	if _, _, err := judge.Judge(context.Background(), "q", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.lastReq == nil || provider.lastReq.Temperature == nil || *provider.lastReq.Temperature != 0 {
		t.Fatalf("judge request did not pin temperature to 0: %+v", provider.lastReq)
	}
	if provider.lastReq.Model != "stub-model" {
		t.Fatalf("empty judge model should fall back to provider default, got %q", provider.lastReq.Model)
	}
}

func TestParseJudgeResponse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantScore     float64
		wantReasoning string
	}{
		{name: "well_formed", raw: "SCORE: 5\nREASONING: excellent", wantScore: 5, wantReasoning: "excellent"},
		{name: "fractional", raw: "SCORE: 3.5\nREASONING: mixed", wantScore: 3.5, wantReasoning: "mixed"},
		{name: "reversed_order", raw: "REASONING: fine\nSCORE: 2", wantScore: 2, wantReasoning: "fine"},
		{name: "non_numeric_score", raw: "SCORE: four\nREASONING: hmm", wantScore: 0, wantReasoning: "hmm"},
		{name: "missing_score", raw: "REASONING: no score given", wantScore: 0, wantReasoning: "no score given"},
		{name: "empty", raw: "", wantScore: 0, wantReasoning: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasoning := parseJudgeResponse(tt.raw)
			if score != tt.wantScore || reasoning != tt.wantReasoning {
				t.Fatalf("got (%v, %q) want (%v, %q)", score, reasoning, tt.wantScore, tt.wantReasoning)
			}
		})
	}
}

package eval

import (
	"context"

	"github.com/haasonsaas/verbatim/internal/corpus"
)

// Result is the consolidated evaluation for one (query, answer) pair.
// All rate fields are always present and default to 0; coherence fields
// are only meaningful when Judged is true. Constructed fresh per call
// and holds no long-lived state.
type Result struct {
	Query              string    `json:"query"`
	Answer             string    `json:"answer"`
	NumQuotes          int       `json:"num_quotes"`
	Verdicts           []Verdict `json:"verdicts"`
	VerbatimRate       float64   `json:"verbatim_rate"`
	CitationRate       float64   `json:"citation_rate"`
	HallucinationRate  float64   `json:"hallucination_rate"`
	Judged             bool      `json:"judged"`
	CoherenceScore     float64   `json:"coherence_score"`
	CoherenceReasoning string    `json:"coherence_reasoning,omitempty"`
}

// Evaluate runs extraction, checking, and aggregation for one answer
// against the corpus, then optionally invokes the coherence judge.
//
// A nil judge skips coherence scoring. When the answer contains no
// recognizable quotes, checking and aggregation are skipped and all
// rates stay 0 - an empty answer shape, not an error. The only error
// path is a judge transport failure, which propagates un-retried.
func Evaluate(ctx context.Context, query, answer string, c *corpus.Corpus, judge *CoherenceJudge) (*Result, error) {
	quotes := ExtractQuotes(answer)
	result := &Result{
		Query:     query,
		Answer:    answer,
		NumQuotes: len(quotes),
		Verdicts:  []Verdict{},
	}

	if len(quotes) > 0 {
		result.Verdicts = CheckQuotes(quotes, c)
		result.VerbatimRate, result.CitationRate, result.HallucinationRate = ComputeRates(result.Verdicts)
	}

	if judge != nil {
		score, reasoning, err := judge.Judge(ctx, query, answer)
		if err != nil {
			return nil, err
		}
		result.Judged = true
		result.CoherenceScore = score
		result.CoherenceReasoning = reasoning
	}

	return result, nil
}

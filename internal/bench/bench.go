// Package bench runs a fixed query set through the answer pipeline in both
// baseline and enhanced modes and scores the enhanced answers for quote
// grounding and coherence. The output is a JSON report comparing the two
// modes per query and in aggregate.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haasonsaas/verbatim/internal/corpus"
	"github.com/haasonsaas/verbatim/internal/eval"
	"github.com/haasonsaas/verbatim/internal/observability"
	"github.com/haasonsaas/verbatim/internal/pipeline"
	"github.com/haasonsaas/verbatim/internal/retry"
)

// DefaultQueries is the standard benchmark question set.
var DefaultQueries = []string{
	"What are the most common complaints about app performance?",
	"Summarize what users love most about Canva",
	"What usability issues are users facing?",
	"What feature requests or suggestions are users making?",
	"How do users feel about Canva's pricing and paid features?",
	"What are users saying about the recent update?",
}

// Querier generates an answer for one query in one mode. *pipeline.Pipeline
// satisfies it.
type Querier interface {
	Query(ctx context.Context, query string, mode pipeline.Mode, onChunk func(string)) (*pipeline.Response, error)
}

var _ Querier = (*pipeline.Pipeline)(nil)

// Options configure a benchmark run.
type Options struct {
	// Queries to run. Empty means DefaultQueries.
	Queries []string

	// Judge scores answer coherence. Nil disables the judge.
	Judge *eval.CoherenceJudge

	// Retry wraps each judge call. Zero value means a single attempt.
	Retry retry.Config

	// Pause between runs, to stay under provider rate limits.
	Pause time.Duration

	// Model recorded in the report header.
	Model string

	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// Runner executes a benchmark.
type Runner struct {
	querier Querier
	corpus  *corpus.Corpus
	opts    Options
}

// NewRunner builds a runner over the pipeline and the record corpus the
// evaluator checks quotes against.
func NewRunner(querier Querier, c *corpus.Corpus, opts Options) *Runner {
	if len(opts.Queries) == 0 {
		opts.Queries = DefaultQueries
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewLogger(observability.LogConfig{})
	}
	return &Runner{querier: querier, corpus: c, opts: opts}
}

// Run executes every query in baseline then enhanced mode. Per-query
// failures are recorded in the result and the run continues; only context
// cancellation aborts the whole run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Model:       r.opts.Model,
		Records:     r.corpus.Len(),
	}

	modes := []pipeline.Mode{pipeline.ModeBaseline, pipeline.ModeEnhanced}
	total := len(r.opts.Queries) * len(modes)
	n := 0

	for _, query := range r.opts.Queries {
		for _, mode := range modes {
			n++
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r.opts.Logger.Info(ctx, "benchmark query",
				"progress", fmt.Sprintf("%d/%d", n, total),
				"mode", string(mode),
				"query", query)

			result := r.runOne(ctx, query, mode)
			report.Results = append(report.Results, result)

			if r.opts.Pause > 0 && n < total {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(r.opts.Pause):
				}
			}
		}
	}

	report.Summary = summarize(report.Results)
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, query string, mode pipeline.Mode) *QueryResult {
	result := &QueryResult{Query: query, Mode: string(mode)}

	resp, err := r.querier.Query(ctx, query, mode, nil)
	if err != nil {
		r.opts.Logger.Error(ctx, "query failed", "mode", string(mode), "error", err)
		result.Error = err.Error()
		return result
	}

	result.Output = resp.Answer
	if c := resp.Cost; c != nil {
		result.Model = c.Model
		result.InputTokens = c.InputTokens
		result.OutputTokens = c.OutputTokens
		result.TotalTokens = c.TotalTokens()
		if usd, ok := c.CostUSD(); ok {
			result.CostUSD = &usd
		}
		result.TTFTSeconds = c.TimeToFirstToken.Seconds()
		result.TotalTimeSeconds = c.TotalTime.Seconds()
	}

	if mode != pipeline.ModeEnhanced {
		return result
	}

	evalResult, err := eval.Evaluate(ctx, query, resp.Answer, r.corpus, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.NumQuotes = ptr(evalResult.NumQuotes)
	result.VerbatimRate = ptr(evalResult.VerbatimRate)
	result.CitationRate = ptr(evalResult.CitationRate)
	result.HallucinationRate = ptr(evalResult.HallucinationRate)
	result.QuotesDetail = r.quoteDetails(evalResult.Verdicts)

	if r.opts.Judge != nil {
		if score, reasoning, ok := r.judge(ctx, query, resp.Answer, result); ok {
			result.CoherenceScore = &score
			result.CoherenceReasoning = &reasoning
		}
	}
	return result
}

// judge calls the coherence judge with retries. A final failure is noted
// on the result and leaves the coherence fields unset, so the summary
// averages only scores the judge actually produced.
func (r *Runner) judge(ctx context.Context, query, answer string, result *QueryResult) (float64, string, bool) {
	type judged struct {
		score     float64
		reasoning string
	}
	value, res := retry.DoWithValue(ctx, r.opts.Retry, func() (judged, error) {
		score, reasoning, err := r.opts.Judge.Judge(ctx, query, answer)
		return judged{score, reasoning}, err
	})
	if res.Err != nil {
		r.opts.Logger.Warn(ctx, "coherence judge failed",
			"attempts", res.Attempts, "error", res.Err)
		if result.Error == "" {
			result.Error = fmt.Sprintf("coherence judge: %v", res.Err)
		}
		return 0, "", false
	}
	return value.score, value.reasoning, true
}

func (r *Runner) quoteDetails(verdicts []eval.Verdict) []QuoteDetail {
	details := make([]QuoteDetail, 0, len(verdicts))
	for _, v := range verdicts {
		content, ok := r.corpus.Get(v.Quote.RecordID)
		if !ok {
			content = "NOT FOUND"
		}
		details = append(details, QuoteDetail{
			ExtractedQuote:   v.Quote.Text,
			FeedbackRecordID: v.Quote.RecordID,
			ActualContent:    content,
			VerbatimMatch:    v.VerbatimMatch,
			CitationCorrect:  v.CitationCorrect,
			FoundInOther:     v.FoundInOther,
			Hallucinated:     v.Hallucinated,
		})
		if r.opts.Metrics != nil {
			r.opts.Metrics.RecordVerdict(v.VerbatimMatch, v.FoundInOther, v.Hallucinated)
		}
	}
	return details
}

// WriteReport marshals the report to path as indented JSON, creating
// parent directories as needed.
func WriteReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

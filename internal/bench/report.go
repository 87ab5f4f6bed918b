package bench

import "time"

// Report is the full benchmark output.
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Model       string         `json:"model,omitempty"`
	Records     int            `json:"records"`
	Results     []*QueryResult `json:"results"`
	Summary     []*ModeSummary `json:"summary"`
}

// QueryResult holds one query in one mode. Grounding fields are pointers
// so baseline rows serialize them as null rather than zero.
type QueryResult struct {
	Query            string   `json:"query"`
	Mode             string   `json:"mode"`
	Model            string   `json:"model,omitempty"`
	Output           string   `json:"output"`
	InputTokens      int      `json:"input_tokens"`
	OutputTokens     int      `json:"output_tokens"`
	TotalTokens      int      `json:"total_tokens"`
	CostUSD          *float64 `json:"cost_usd"`
	TTFTSeconds      float64  `json:"ttft_s"`
	TotalTimeSeconds float64  `json:"total_time_s"`

	NumQuotes          *int          `json:"num_quotes"`
	VerbatimRate       *float64      `json:"verbatim_rate"`
	CitationRate       *float64      `json:"citation_rate"`
	HallucinationRate  *float64      `json:"hallucination_rate"`
	CoherenceScore     *float64      `json:"coherence_score"`
	CoherenceReasoning *string       `json:"coherence_reasoning"`
	QuotesDetail       []QuoteDetail `json:"quotes_detail"`

	Error string `json:"error,omitempty"`
}

// QuoteDetail records one extracted quote and how it fared against the
// corpus.
type QuoteDetail struct {
	ExtractedQuote   string `json:"extracted_quote"`
	FeedbackRecordID string `json:"feedback_record_id"`
	ActualContent    string `json:"actual_feedback_content"`
	VerbatimMatch    bool   `json:"verbatim_match"`
	CitationCorrect  bool   `json:"citation_correct"`
	FoundInOther     string `json:"found_in_other,omitempty"`
	Hallucinated     bool   `json:"hallucinated"`
}

// ModeSummary aggregates all successful results of one mode.
type ModeSummary struct {
	Mode                 string   `json:"mode"`
	Queries              int      `json:"queries"`
	Failures             int      `json:"failures"`
	TotalTokens          int      `json:"total_tokens"`
	TotalCostUSD         *float64 `json:"total_cost_usd"`
	AvgTTFTSeconds       float64  `json:"avg_ttft_s"`
	AvgTotalTimeSeconds  float64  `json:"avg_total_time_s"`
	AvgVerbatimRate      *float64 `json:"avg_verbatim_rate"`
	AvgCitationRate      *float64 `json:"avg_citation_rate"`
	AvgHallucinationRate *float64 `json:"avg_hallucination_rate"`
	AvgCoherenceScore    *float64 `json:"avg_coherence_score"`
}

// summarize folds per-query results into one summary per mode, preserving
// the order modes first appear in.
func summarize(results []*QueryResult) []*ModeSummary {
	byMode := make(map[string]*ModeSummary)
	var order []string

	type acc struct {
		costKnown bool
		cost      float64
		ttft      float64
		total     float64
		timed     int
		verbatim  float64
		citation  float64
		halluc    float64
		cohere    float64
		graded    int
		judged    int
	}
	accs := make(map[string]*acc)

	for _, r := range results {
		s, ok := byMode[r.Mode]
		if !ok {
			s = &ModeSummary{Mode: r.Mode}
			byMode[r.Mode] = s
			accs[r.Mode] = &acc{}
			order = append(order, r.Mode)
		}
		a := accs[r.Mode]

		s.Queries++
		if r.Error != "" && r.Output == "" {
			s.Failures++
			continue
		}
		s.TotalTokens += r.TotalTokens
		if r.CostUSD != nil {
			a.costKnown = true
			a.cost += *r.CostUSD
		}
		if r.TotalTimeSeconds > 0 {
			a.ttft += r.TTFTSeconds
			a.total += r.TotalTimeSeconds
			a.timed++
		}
		if r.VerbatimRate != nil {
			a.verbatim += *r.VerbatimRate
			a.citation += *r.CitationRate
			a.halluc += *r.HallucinationRate
			a.graded++
		}
		if r.CoherenceScore != nil {
			a.cohere += *r.CoherenceScore
			a.judged++
		}
	}

	summaries := make([]*ModeSummary, 0, len(order))
	for _, mode := range order {
		s, a := byMode[mode], accs[mode]
		if a.costKnown {
			s.TotalCostUSD = &a.cost
		}
		if a.timed > 0 {
			s.AvgTTFTSeconds = a.ttft / float64(a.timed)
			s.AvgTotalTimeSeconds = a.total / float64(a.timed)
		}
		if a.graded > 0 {
			s.AvgVerbatimRate = ptr(a.verbatim / float64(a.graded))
			s.AvgCitationRate = ptr(a.citation / float64(a.graded))
			s.AvgHallucinationRate = ptr(a.halluc / float64(a.graded))
		}
		if a.judged > 0 {
			s.AvgCoherenceScore = ptr(a.cohere / float64(a.judged))
		}
		summaries = append(summaries, s)
	}
	return summaries
}

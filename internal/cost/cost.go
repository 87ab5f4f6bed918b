// Package cost tracks token usage, dollar cost, and latency for LLM
// calls so benchmark output can compare modes on price and speed.
package cost

import (
	"fmt"
	"time"
)

// Pricing is USD per million tokens for one model.
type Pricing struct {
	Input  float64
	Output float64
}

// modelPricing covers the models the benchmark typically runs with.
// Models not listed report no cost rather than a wrong one.
var modelPricing = map[string]Pricing{
	"gpt-4o-mini":               {Input: 0.15, Output: 0.60},
	"gpt-4o":                    {Input: 2.50, Output: 10.00},
	"claude-sonnet-4-20250514":  {Input: 3.00, Output: 15.00},
	"claude-3-5-haiku-20241022": {Input: 0.80, Output: 4.00},
}

// Record captures one completion call's usage and timing.
type Record struct {
	Model            string        `json:"model"`
	Mode             string        `json:"mode,omitempty"` // "baseline" or "enhanced"
	Query            string        `json:"query,omitempty"`
	InputTokens      int           `json:"input_tokens"`
	OutputTokens     int           `json:"output_tokens"`
	TimeToFirstToken time.Duration `json:"ttft,omitempty"`
	TotalTime        time.Duration `json:"total_time,omitempty"`
}

// TotalTokens returns input plus output tokens.
func (r *Record) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// CostUSD returns the dollar cost for this record, and whether pricing
// is known for the model.
func (r *Record) CostUSD() (float64, bool) {
	pricing, ok := modelPricing[r.Model]
	if !ok {
		return 0, false
	}
	cost := float64(r.InputTokens)/1_000_000*pricing.Input +
		float64(r.OutputTokens)/1_000_000*pricing.Output
	return cost, true
}

// String renders a one-line summary for CLI output.
func (r *Record) String() string {
	costStr := "N/A"
	if cost, ok := r.CostUSD(); ok {
		costStr = fmt.Sprintf("$%.6f", cost)
	}
	ttft := "N/A"
	if r.TimeToFirstToken > 0 {
		ttft = fmt.Sprintf("%.3fs", r.TimeToFirstToken.Seconds())
	}
	total := "N/A"
	if r.TotalTime > 0 {
		total = fmt.Sprintf("%.3fs", r.TotalTime.Seconds())
	}
	return fmt.Sprintf("input=%d tok  output=%d tok  total=%d tok  cost=%s  ttft=%s  total_time=%s",
		r.InputTokens, r.OutputTokens, r.TotalTokens(), costStr, ttft, total)
}

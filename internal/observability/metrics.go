package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus counters and histograms for the pipeline.
//
// Tracked concerns:
//   - LLM request latency, counts, and token consumption per provider/model
//   - vector search latency and result counts
//   - quote verdict outcomes from answer evaluation
//   - indexing throughput
type Metrics struct {
	// LLMRequestDuration measures completion call latency in seconds.
	// Labels: provider, model
	LLMRequestDuration *prometheus.HistogramVec

	// LLMRequestCounter counts completion calls.
	// Labels: provider, model, status (success|error)
	LLMRequestCounter *prometheus.CounterVec

	// LLMTokensUsed tracks token consumption.
	// Labels: provider, model, type (input|output)
	LLMTokensUsed *prometheus.CounterVec

	// SearchDuration measures vector search latency in seconds.
	SearchDuration prometheus.Histogram

	// QuoteVerdicts counts evaluated quotes by outcome.
	// Labels: outcome (verbatim|misattributed|hallucinated)
	QuoteVerdicts *prometheus.CounterVec

	// SummariesIndexed counts summaries written to the store.
	SummariesIndexed prometheus.Counter
}

// NewMetrics registers all metrics with reg, or with the default
// registerer when reg is nil. Call once at startup.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		LLMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "verbatim_llm_request_duration_seconds",
				Help:    "Duration of LLM completion requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "model"},
		),

		LLMRequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verbatim_llm_requests_total",
				Help: "Total LLM completion requests by provider, model, and status",
			},
			[]string{"provider", "model", "status"},
		),

		LLMTokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verbatim_llm_tokens_total",
				Help: "Total tokens consumed by provider, model, and type",
			},
			[]string{"provider", "model", "type"},
		),

		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "verbatim_search_duration_seconds",
				Help:    "Duration of summary searches in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),

		QuoteVerdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "verbatim_quote_verdicts_total",
				Help: "Evaluated quotes by outcome",
			},
			[]string{"outcome"},
		),

		SummariesIndexed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "verbatim_summaries_indexed_total",
				Help: "Summaries embedded and written to the store",
			},
		),
	}
}

// RecordLLMRequest records one completion call's outcome and usage.
func (m *Metrics) RecordLLMRequest(provider, model, status string, seconds float64, inputTokens, outputTokens int) {
	m.LLMRequestCounter.WithLabelValues(provider, model, status).Inc()
	m.LLMRequestDuration.WithLabelValues(provider, model).Observe(seconds)
	if inputTokens > 0 {
		m.LLMTokensUsed.WithLabelValues(provider, model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.LLMTokensUsed.WithLabelValues(provider, model, "output").Add(float64(outputTokens))
	}
}

// RecordVerdict counts one quote verdict by outcome.
func (m *Metrics) RecordVerdict(verbatim bool, foundInOther string, hallucinated bool) {
	switch {
	case verbatim:
		m.QuoteVerdicts.WithLabelValues("verbatim").Inc()
	case hallucinated:
		m.QuoteVerdicts.WithLabelValues("hallucinated").Inc()
	case foundInOther != "":
		m.QuoteVerdicts.WithLabelValues("misattributed").Inc()
	}
}

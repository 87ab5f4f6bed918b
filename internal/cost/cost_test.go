package cost

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestCostUSD(t *testing.T) {
	r := &Record{Model: "gpt-4o", InputTokens: 1_000_000, OutputTokens: 500_000}
	cost, ok := r.CostUSD()
	if !ok {
		t.Fatal("pricing for gpt-4o should be known")
	}
	if math.Abs(cost-7.50) > 1e-9 {
		t.Fatalf("cost = %v", cost)
	}
}

func TestCostUnknownModel(t *testing.T) {
	r := &Record{Model: "mystery-model", InputTokens: 1000}
	if _, ok := r.CostUSD(); ok {
		t.Fatal("unknown model must not report a cost")
	}
}

func TestTotalTokens(t *testing.T) {
	r := &Record{InputTokens: 120, OutputTokens: 30}
	if r.TotalTokens() != 150 {
		t.Fatalf("TotalTokens = %d", r.TotalTokens())
	}
}

func TestStringRendersNA(t *testing.T) {
	r := &Record{Model: "mystery-model", InputTokens: 10, OutputTokens: 5}
	s := r.String()
	if !strings.Contains(s, "cost=N/A") || !strings.Contains(s, "ttft=N/A") {
		t.Fatalf("String() = %q", s)
	}
}

func TestStringWithTimings(t *testing.T) {
	r := &Record{
		Model:            "gpt-4o-mini",
		InputTokens:      100,
		OutputTokens:     50,
		TimeToFirstToken: 250 * time.Millisecond,
		TotalTime:        2 * time.Second,
	}
	s := r.String()
	if !strings.Contains(s, "ttft=0.250s") || !strings.Contains(s, "total_time=2.000s") {
		t.Fatalf("String() = %q", s)
	}
}

package eval

import (
	"testing"

	"github.com/haasonsaas/verbatim/internal/corpus"
)

func buildCorpus(pairs ...[2]string) *corpus.Corpus {
	c := corpus.New()
	for _, p := range pairs {
		c.Add(p[0], p[1])
	}
	return c
}

func TestCheckQuotesVerbatimMatch(t *testing.T) {
	c := buildCorpus([2]string{"rec_1", "the app crashes on upload"})
	verdicts := CheckQuotes([]Quote{{Text: "the app crashes on upload", RecordID: "rec_1"}}, c)
	if len(verdicts) != 1 {
		t.Fatalf("verdicts = %d", len(verdicts))
	}
	v := verdicts[0]
	if !v.VerbatimMatch || !v.CitationCorrect || v.Hallucinated || v.FoundInOther != "" {
		t.Fatalf("verdict = %+v", v)
	}
}

func TestCheckQuotesCaseInsensitive(t *testing.T) {
	c := buildCorpus([2]string{"rec_1", "The App CRASHES on upload"})
	verdicts := CheckQuotes([]Quote{{Text: "the app crashes", RecordID: "rec_1"}}, c)
	if !verdicts[0].VerbatimMatch {
		t.Fatalf("case-insensitive match failed: %+v", verdicts[0])
	}
}

func TestCheckQuotesMisattribution(t *testing.T) {
	c := buildCorpus(
		[2]string{"rec_1", "great app"},
		[2]string{"rec_2", "the app crashes on upload"},
	)
	verdicts := CheckQuotes([]Quote{{Text: "the app crashes on upload", RecordID: "rec_1"}}, c)
	v := verdicts[0]
	if v.VerbatimMatch || v.CitationCorrect {
		t.Fatalf("misattributed quote should not match: %+v", v)
	}
	if v.FoundInOther != "rec_2" {
		t.Fatalf("FoundInOther = %q, want rec_2", v.FoundInOther)
	}
	if v.Hallucinated {
		t.Fatalf("misattributed quote flagged as hallucinated: %+v", v)
	}
}

func TestCheckQuotesHallucination(t *testing.T) {
	c := buildCorpus([2]string{"rec_1", "great app"})
	verdicts := CheckQuotes([]Quote{{Text: "this text does not exist anywhere", RecordID: "rec_1"}}, c)
	v := verdicts[0]
	if !v.Hallucinated || v.FoundInOther != "" || v.VerbatimMatch {
		t.Fatalf("verdict = %+v", v)
	}
}

func TestCheckQuotesUnknownRecordID(t *testing.T) {
	c := buildCorpus([2]string{"rec_1", "the app crashes on upload"})
	verdicts := CheckQuotes([]Quote{{Text: "the app crashes on upload", RecordID: "missing_id"}}, c)
	v := verdicts[0]
	if v.VerbatimMatch {
		t.Fatalf("unknown id must never verbatim-match: %+v", v)
	}
	if v.FoundInOther != "rec_1" || v.Hallucinated {
		t.Fatalf("quote should be located in rec_1: %+v", v)
	}
}

func TestCheckQuotesFirstOtherRecordWins(t *testing.T) {
	// Both rec_2 and rec_3 contain the quote; insertion order decides.
	c := buildCorpus(
		[2]string{"rec_1", "unrelated"},
		[2]string{"rec_2", "the sync feature is broken"},
		[2]string{"rec_3", "yes, the sync feature is broken for me too"},
	)
	verdicts := CheckQuotes([]Quote{{Text: "the sync feature is broken", RecordID: "rec_1"}}, c)
	if verdicts[0].FoundInOther != "rec_2" {
		t.Fatalf("FoundInOther = %q, want first match rec_2", verdicts[0].FoundInOther)
	}
}

func TestCheckQuotesOrderPreserved(t *testing.T) {
	c := buildCorpus(
		[2]string{"rec_1", "alpha feedback"},
		[2]string{"rec_2", "beta feedback"},
	)
	quotes := []Quote{
		{Text: "beta feedback", RecordID: "rec_2"},
		{Text: "missing everywhere", RecordID: "rec_1"},
		{Text: "alpha feedback", RecordID: "rec_1"},
	}
	verdicts := CheckQuotes(quotes, c)
	if len(verdicts) != 3 {
		t.Fatalf("verdicts = %d", len(verdicts))
	}
	for i := range quotes {
		if verdicts[i].Quote != quotes[i] {
			t.Fatalf("verdict %d out of order: %+v", i, verdicts[i].Quote)
		}
	}
	if !verdicts[0].VerbatimMatch || !verdicts[1].Hallucinated || !verdicts[2].VerbatimMatch {
		t.Fatalf("verdicts = %+v", verdicts)
	}
}

func TestComputeRates(t *testing.T) {
	tests := []struct {
		name              string
		verdicts          []Verdict
		wantVerbatim      float64
		wantCitation      float64
		wantHallucination float64
	}{
		{
			name:     "empty",
			verdicts: nil,
		},
		{
			name: "mixed",
			verdicts: []Verdict{
				{VerbatimMatch: true, CitationCorrect: true},
				{FoundInOther: "rec_9"},
				{Hallucinated: true},
				{VerbatimMatch: true, CitationCorrect: true},
			},
			wantVerbatim:      0.5,
			wantCitation:      0.5,
			wantHallucination: 0.25,
		},
		{
			name: "all_hallucinated",
			verdicts: []Verdict{
				{Hallucinated: true},
				{Hallucinated: true},
			},
			wantHallucination: 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbatim, citation, hallucination := ComputeRates(tt.verdicts)
			if verbatim != tt.wantVerbatim || citation != tt.wantCitation || hallucination != tt.wantHallucination {
				t.Fatalf("rates = (%v, %v, %v)", verbatim, citation, hallucination)
			}
			if verbatim != citation {
				t.Fatalf("verbatim and citation rates diverged: %v vs %v", verbatim, citation)
			}
			for _, rate := range []float64{verbatim, citation, hallucination} {
				if rate < 0 || rate > 1 {
					t.Fatalf("rate out of range: %v", rate)
				}
			}
		})
	}
}

package eval

import (
	"reflect"
	"testing"
)

func TestExtractQuotes(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   []Quote
	}{
		{
			name:   "em_dash",
			answer: `> "the app crashes on upload" — rec_1`,
			want:   []Quote{{Text: "the app crashes on upload", RecordID: "rec_1"}},
		},
		{
			name:   "en_dash",
			answer: `> "great app" – rec_2`,
			want:   []Quote{{Text: "great app", RecordID: "rec_2"}},
		},
		{
			name:   "double_hyphen",
			answer: `> "love the templates" -- rec_3`,
			want:   []Quote{{Text: "love the templates", RecordID: "rec_3"}},
		},
		{
			name:   "single_hyphen",
			answer: `> "too expensive" - rec_4`,
			want:   []Quote{{Text: "too expensive", RecordID: "rec_4"}},
		},
		{
			name: "embedded_in_prose",
			answer: "Users report stability problems:\n\n" +
				`> "the app crashes on upload" — rec_1` + "\n\n" +
				"Pricing also comes up:\n\n" +
				`> "too expensive for students" — rec_9` + "\n",
			want: []Quote{
				{Text: "the app crashes on upload", RecordID: "rec_1"},
				{Text: "too expensive for students", RecordID: "rec_9"},
			},
		},
		{
			name:   "no_markers",
			answer: "No relevant feedback found for your query.",
			want:   []Quote{},
		},
		{
			name:   "whitespace_only_quote_dropped",
			answer: `> "   " — rec_1`,
			want:   []Quote{},
		},
		{
			name:   "unknown_id_still_extracted",
			answer: `> "anything" — not_a_real_record`,
			want:   []Quote{{Text: "anything", RecordID: "not_a_real_record"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractQuotes(tt.answer)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractQuotesIdempotent(t *testing.T) {
	answer := "Intro.\n" +
		`> "first quote" — rec_a` + "\n" +
		`> "second quote" -- rec_b` + "\n"
	first := ExtractQuotes(answer)
	second := ExtractQuotes(answer)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not idempotent: %+v vs %+v", first, second)
	}
	if len(first) != 2 || first[0].RecordID != "rec_a" || first[1].RecordID != "rec_b" {
		t.Fatalf("extraction order wrong: %+v", first)
	}
}

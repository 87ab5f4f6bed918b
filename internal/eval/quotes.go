// Package eval verifies that quotes in generated answers are grounded
// in the feedback corpus, and scores answer coherence with an LLM judge.
package eval

import (
	"regexp"
	"strings"
)

// quotePattern matches the inline citation convention:
//
//	> "quoted text" — record_id
//
// The separator accepts one or more hyphen, en-dash, or em-dash glyphs
// since models emit all three. Quoted text may not contain a double
// quote; the next double quote closes it. Applied globally across the
// whole answer, not line by line.
var quotePattern = regexp.MustCompile(`>\s*"([^"]+)"\s*[—–-]+\s*(\S+)`)

// Quote is one extracted (quoted text, cited record id) pair, exactly
// as written by the model apart from whitespace trimming.
type Quote struct {
	Text     string `json:"text"`
	RecordID string `json:"record_id"`
}

// ExtractQuotes parses all block quotes from an answer, in order of
// appearance. Zero matches is a valid outcome. Quotes whose trimmed
// text is empty are dropped as parse anomalies so they can never
// trivially substring-match every record. The cited record id is not
// validated here; unknown ids simply never match in the checker.
func ExtractQuotes(answer string) []Quote {
	matches := quotePattern.FindAllStringSubmatch(answer, -1)
	quotes := make([]Quote, 0, len(matches))
	for _, m := range matches {
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		quotes = append(quotes, Quote{
			Text:     text,
			RecordID: strings.TrimSpace(m[2]),
		})
	}
	return quotes
}

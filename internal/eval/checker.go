package eval

import (
	"strings"

	"github.com/haasonsaas/verbatim/internal/corpus"
)

// Verdict is the grounding outcome for one extracted quote.
//
// Exactly one of three states holds: the quote was verified against its
// cited record (VerbatimMatch), it was found in a different record
// (FoundInOther set), or it appears nowhere in the corpus
// (Hallucinated). CitationCorrect currently mirrors VerbatimMatch;
// citation correctness is not checked independently of the verbatim
// test, and that redundancy is kept deliberately.
type Verdict struct {
	Quote           Quote  `json:"quote"`
	VerbatimMatch   bool   `json:"verbatim_match"`
	CitationCorrect bool   `json:"citation_correct"`
	FoundInOther    string `json:"found_in_other,omitempty"`
	Hallucinated    bool   `json:"hallucinated"`
}

// CheckQuotes verifies each quote against the corpus, returning one
// verdict per quote in input order.
//
// Per quote: a case-insensitive substring test against the cited
// record's content (a missing record id behaves as empty content). On a
// miss, the remaining records are scanned in corpus insertion order and
// the first containing record wins. The full scan is linear in corpus
// size per failed quote, which is fine at feedback-corpus scale
// (hundreds to low thousands of records).
func CheckQuotes(quotes []Quote, c *corpus.Corpus) []Verdict {
	verdicts := make([]Verdict, 0, len(quotes))
	for _, quote := range quotes {
		cited, _ := c.Get(quote.RecordID)
		needle := strings.ToLower(quote.Text)
		if strings.Contains(strings.ToLower(cited), needle) {
			verdicts = append(verdicts, Verdict{
				Quote:           quote,
				VerbatimMatch:   true,
				CitationCorrect: true,
			})
			continue
		}

		foundIn := ""
		for _, id := range c.IDs() {
			if id == quote.RecordID {
				continue
			}
			content, _ := c.Get(id)
			if strings.Contains(strings.ToLower(content), needle) {
				foundIn = id
				break
			}
		}
		verdicts = append(verdicts, Verdict{
			Quote:        quote,
			FoundInOther: foundIn,
			Hallucinated: foundIn == "",
		})
	}
	return verdicts
}

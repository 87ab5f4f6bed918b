// Package models defines the core data types for verbatim.
package models

// AttributeValue is one typed attribute in a feedback export.
// The export wraps every field in a string-values envelope; the
// accessor methods below flatten it so nothing downstream has to
// touch the nested shape.
type AttributeValue struct {
	String struct {
		Values []string `json:"values"`
	} `json:"string"`
}

// First returns the first value of the attribute, or "" when absent.
func (a AttributeValue) First() string {
	if len(a.String.Values) == 0 {
		return ""
	}
	return a.String.Values[0]
}

// FeedbackRecord is the raw feedback item as exported by the source
// system. Content carries the verbatim text used for quote grounding.
type FeedbackRecord struct {
	ID         string `json:"id"`
	Attributes struct {
		Content AttributeValue `json:"content"`
	} `json:"attributes"`
}

// Content returns the verbatim feedback text.
func (r *FeedbackRecord) Content() string {
	return r.Attributes.Content.First()
}

// FeedbackSummary is the LLM-written summary paired with a feedback
// record. Summaries are what gets embedded and searched; the record
// they point at is what quotes are verified against.
type FeedbackSummary struct {
	ID         string `json:"id"`
	Attributes struct {
		Content          AttributeValue `json:"content"`
		FeedbackRecordID AttributeValue `json:"feedback_record_id"`
	} `json:"attributes"`
}

// Content returns the summary text.
func (s *FeedbackSummary) Content() string {
	return s.Attributes.Content.First()
}

// RecordID returns the identifier of the feedback record this summary
// describes, or "" when the export omitted it.
func (s *FeedbackSummary) RecordID() string {
	return s.Attributes.FeedbackRecordID.First()
}

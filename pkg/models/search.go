package models

// SearchRequest describes a semantic search over indexed feedback summaries.
type SearchRequest struct {
	// Query is the natural-language search text.
	Query string `json:"query"`

	// Limit is the maximum number of results to return.
	// If 0, the store default is used.
	Limit int `json:"limit,omitempty"`

	// Threshold is the minimum cosine similarity score (0-1).
	Threshold float32 `json:"threshold,omitempty"`
}

// SearchResult is one retrieved feedback summary with its source record.
type SearchResult struct {
	// SummaryID identifies the indexed summary.
	SummaryID string `json:"summary_id"`

	// RecordID identifies the feedback record the summary describes.
	RecordID string `json:"record_id"`

	// Content is the summary text that was embedded and matched.
	Content string `json:"content"`

	// RecordContent is the verbatim feedback text of the source record.
	RecordContent string `json:"record_content"`

	// Score is the cosine similarity between query and summary (0-1).
	Score float32 `json:"score"`
}

// SearchResponse contains ranked search results.
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
}

package retrieval

// Document is a corpus record. Documents are immutable once stored; the Score
// field is only populated on the per-query copies returned by Retrieve and
// stays zero on the stored original.
type Document struct {
	Content  string            `json:"content"`
	Source   string            `json:"source,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score,omitempty"`
}

// Query is an ephemeral retrieval request.
type Query struct {
	Text    string            `json:"text"`
	Filters map[string]string `json:"filters,omitempty"`
}

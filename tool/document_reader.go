package tool

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/docassist/logging"
	"github.com/hupe1980/docassist/retrieval"
)

// DocumentReaderName is the registry key of the document reader tool.
const DocumentReaderName = "document_reader"

// documentReaderTopK caps how many documents a single read returns.
const documentReaderTopK = 3

// DocumentReader wraps the retrieval store as a tool: it searches for the
// most relevant documents and returns their content as labeled text blocks.
type DocumentReader struct {
	store  *retrieval.Store
	logger logging.Logger
}

// DocumentReaderOptions configures the document reader tool.
type DocumentReaderOptions struct {
	Logger logging.Logger
}

// NewDocumentReader constructs the document reader backed by store.
func NewDocumentReader(store *retrieval.Store, optFns ...func(o *DocumentReaderOptions)) *DocumentReader {
	opts := DocumentReaderOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &DocumentReader{store: store, logger: opts.Logger}
}

// Name implements Tool.
func (d *DocumentReader) Name() string { return DocumentReaderName }

// Description implements Tool.
func (d *DocumentReader) Description() string {
	return "Read and retrieve relevant documents based on a query. Returns the content of the most relevant documents."
}

// Parameters implements Tool.
func (d *DocumentReader) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Search query to find relevant documents",
			},
		},
		"required": []string{"query"},
	}
}

// Call implements Tool. Every invocation is logged with input and a result
// summary.
func (d *DocumentReader) Call(args map[string]interface{}) (string, error) {
	query, _ := args["query"].(string)
	start := time.Now()

	docs := d.store.Retrieve(retrieval.Query{Text: query}, documentReaderTopK)
	if len(docs) == 0 {
		d.logger.Info("tool.call",
			"tool", DocumentReaderName,
			"input", query,
			"output", "no documents",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "No relevant documents found.", nil
	}

	parts := make([]string, 0, len(docs))
	for i, doc := range docs {
		source := doc.Source
		if source == "" {
			source = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("[Document %d] (Source: %s)\n%s\n", i+1, source, doc.Content))
	}

	d.logger.Info("tool.call",
		"tool", DocumentReaderName,
		"input", query,
		"output", fmt.Sprintf("retrieved %d document(s)", len(docs)),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return strings.Join(parts, "\n"), nil
}

package retrieval

import (
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/docassist/logging"
)

// StoreOptions configures a document store.
type StoreOptions struct {
	Logger logging.Logger
}

// Store holds the in-memory document corpus and answers lexical relevance
// queries. Reads are safe for concurrent use; concurrent mutation against
// retrieval must be serialized by the caller.
//
// Scoring is a plain case-insensitive term-frequency scan: the score of a
// document is the sum over query terms of the raw substring occurrence count
// in the lowered content. No stemming, no tokenization awareness ("cat" also
// matches inside "category"), no TF-IDF.
type Store struct {
	mu     sync.RWMutex
	docs   []Document
	logger logging.Logger
}

// NewStore constructs an empty document store.
func NewStore(optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{logger: opts.Logger}
}

// Add appends a document to the corpus.
func (s *Store) Add(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Score = 0
	s.docs = append(s.docs, doc)
	s.logger.Debug("retrieval.store.add", "source", doc.Source, "count", len(s.docs))
}

// Clear removes every document from the corpus.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.logger.Debug("retrieval.store.clear")
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Retrieve returns at most topK documents relevant to the query, descending by
// score. Documents scoring zero are excluded; ties keep input order. Returned
// documents are copies carrying their computed score.
func (s *Store) Retrieve(query Query, topK int) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query.Text))
	if len(terms) == 0 || topK <= 0 {
		return nil
	}

	var scored []Document
	for _, doc := range s.docs {
		score := scoreContent(strings.ToLower(doc.Content), terms)
		if score <= 0 {
			continue
		}
		cp := doc
		cp.Score = score
		scored = append(scored, cp)
	}

	// SliceStable keeps input order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topK {
		scored = scored[:topK]
	}

	s.logger.Debug("retrieval.store.retrieve", "query", query.Text, "hits", len(scored))

	return scored
}

// scoreContent sums raw substring occurrence counts per query term. Repeated
// terms in the query compound additively.
func scoreContent(content string, terms []string) float64 {
	var score float64
	for _, term := range terms {
		score += float64(strings.Count(content, term))
	}
	return score
}

// replaceBySource swaps the content of the document with the given source in
// place, preserving corpus order and count. Returns false when no document
// carries that source.
func (s *Store) replaceBySource(source, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].Source == source {
			s.docs[i].Content = content
			return true
		}
	}
	return false
}

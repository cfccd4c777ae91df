// Package retrieval implements the in-memory document corpus and its lexical
// relevance ranker, plus filesystem ingestion and an optional fsnotify-based
// watcher that keeps the corpus in sync with a directory. Retrieval is
// deliberately count-based keyword matching; swap in a vector index if
// semantic search is ever needed.
package retrieval

package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/docassist/retrieval"
)

func TestDocumentReaderCall(t *testing.T) {
	store := retrieval.NewStore()
	store.Add(retrieval.Document{Content: "January Sales Report: total sales were $50,000.", Source: "jan.txt"})
	store.Add(retrieval.Document{Content: "February Sales Report: total sales were $60,000.", Source: "feb.txt"})
	store.Add(retrieval.Document{Content: "Company picnic planning notes.", Source: "picnic.txt"})

	reader := NewDocumentReader(store)

	result, err := reader.Call(map[string]interface{}{"query": "sales report"})
	assert.NoError(t, err)
	assert.Contains(t, result, "[Document 1] (Source: jan.txt)")
	assert.Contains(t, result, "[Document 2] (Source: feb.txt)")
	assert.NotContains(t, result, "picnic")
}

func TestDocumentReaderCallNoMatches(t *testing.T) {
	store := retrieval.NewStore()
	store.Add(retrieval.Document{Content: "January Sales Report", Source: "jan.txt"})

	reader := NewDocumentReader(store)

	result, err := reader.Call(map[string]interface{}{"query": "quantum chromodynamics"})
	assert.NoError(t, err)
	assert.Equal(t, "No relevant documents found.", result)
}

func TestDocumentReaderCallEmptyStore(t *testing.T) {
	reader := NewDocumentReader(retrieval.NewStore())

	result, err := reader.Call(map[string]interface{}{"query": "anything"})
	assert.NoError(t, err)
	assert.Equal(t, "No relevant documents found.", result)
}

func TestDocumentReaderUnknownSource(t *testing.T) {
	store := retrieval.NewStore()
	store.Add(retrieval.Document{Content: "orphan content"})

	reader := NewDocumentReader(store)

	result, err := reader.Call(map[string]interface{}{"query": "orphan"})
	assert.NoError(t, err)
	assert.Contains(t, result, "(Source: Unknown)")
}

func TestDocumentReaderTopKCap(t *testing.T) {
	store := retrieval.NewStore()
	for i := 0; i < 5; i++ {
		store.Add(retrieval.Document{Content: "widget inventory", Source: "doc"})
	}

	reader := NewDocumentReader(store)

	result, err := reader.Call(map[string]interface{}{"query": "widget"})
	assert.NoError(t, err)
	assert.Contains(t, result, "[Document 3]")
	assert.NotContains(t, result, "[Document 4]")
}

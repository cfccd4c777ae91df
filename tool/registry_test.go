package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/docassist/retrieval"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	calc := NewCalculator()
	reader := NewDocumentReader(retrieval.NewStore())

	reg := NewRegistry(calc, reader)

	got, ok := reg.Get(CalculatorName)
	assert.True(t, ok)
	assert.Equal(t, calc, got)

	_, ok = reg.Get("nonexistent")
	assert.False(t, ok)

	assert.Equal(t, []string{CalculatorName, DocumentReaderName}, reg.Names())
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewRegistry(NewCalculator())
	replacement := NewCalculator()
	reg.Register(replacement)

	got, ok := reg.Get(CalculatorName)
	assert.True(t, ok)
	assert.Equal(t, replacement, got)
	assert.Len(t, reg.Names(), 1)
}

func TestRegistryDefinitions(t *testing.T) {
	reg := NewRegistry(NewCalculator(), NewDocumentReader(retrieval.NewStore()))

	defs := reg.Definitions()
	assert.Len(t, defs, 2)
	assert.Equal(t, CalculatorName, defs[0].Name)
	assert.Equal(t, DocumentReaderName, defs[1].Name)
	assert.NotEmpty(t, defs[0].Description)
	assert.Equal(t, "object", defs[0].Parameters["type"])
}

func TestRegistrySubset(t *testing.T) {
	reg := NewRegistry(NewCalculator(), NewDocumentReader(retrieval.NewStore()))

	sub, err := reg.Subset(DocumentReaderName)
	assert.NoError(t, err)
	assert.Equal(t, []string{DocumentReaderName}, sub.Names())

	_, ok := sub.Get(CalculatorName)
	assert.False(t, ok)
}

func TestRegistrySubsetUnknownTool(t *testing.T) {
	reg := NewRegistry(NewCalculator())

	_, err := reg.Subset("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/retrieval"
	"github.com/hupe1980/docassist/tool"
)

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	store := retrieval.NewStore()
	store.Add(retrieval.Document{Content: "January Sales Report: total sales were $50,000.", Source: "jan.txt"})
	store.Add(retrieval.Document{Content: "February Sales Report: total sales were $60,000.", Source: "feb.txt"})
	return tool.NewRegistry(tool.NewCalculator(), tool.NewDocumentReader(store))
}

func TestQANotConfigured(t *testing.T) {
	h := NewQA(nil, newTestRegistry(t))

	res, err := h.Handle(context.Background(), Request{UserInput: "What were January sales?"})
	require.NoError(t, err)

	answer, ok := res.Response.(core.AnswerResponse)
	require.True(t, ok)
	assert.Equal(t, notConfiguredMessage, answer.Answer)
	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, res.ToolsUsed)
}

func TestSummarizationNotConfigured(t *testing.T) {
	h, err := NewSummarization(nil, newTestRegistry(t))
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), Request{UserInput: "Summarize the reports"})
	require.NoError(t, err)

	summary, ok := res.Response.(core.SummarizationResponse)
	require.True(t, ok)
	assert.Equal(t, notConfiguredMessage, summary.Summary)
	assert.Equal(t, 0.0, summary.Confidence)
}

func TestCalculationNotConfigured(t *testing.T) {
	h, err := NewCalculation(nil, newTestRegistry(t))
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), Request{UserInput: "Add the sales"})
	require.NoError(t, err)

	calc, ok := res.Response.(core.CalculationResponse)
	require.True(t, ok)
	assert.Equal(t, notConfiguredMessage, calc.Explanation)
	assert.Equal(t, 0.0, calc.Confidence)
}

func TestQAWithTools(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddResponse("answer the original question",
		"January sales were $50,000, per the January report.")
	backend.AddToolCallResponse("specialized in answering questions",
		model.ToolCall{ID: "1", Name: tool.DocumentReaderName, Arguments: `{"query":"January sales"}`},
	)

	h := NewQA(backend, newTestRegistry(t))

	res, err := h.Handle(context.Background(), Request{UserInput: "What were January sales?"})
	require.NoError(t, err)

	answer, ok := res.Response.(core.AnswerResponse)
	require.True(t, ok)
	assert.Equal(t, "January sales were $50,000, per the January report.", answer.Answer)
	assert.Equal(t, 0.9, answer.Confidence)
	assert.Equal(t, []string{tool.DocumentReaderName}, res.ToolsUsed)

	// Elicitation, then a tool-free synthesis call.
	calls := backend.Calls()
	require.Len(t, calls, 2)
	assert.NotEmpty(t, calls[0].Tools)
	assert.Empty(t, calls[1].Tools)
	assert.Contains(t, calls[1].Messages[0].Content, "[document_reader]")
	assert.Contains(t, calls[1].Messages[0].Content, "January Sales Report")
}

func TestQAWithoutTools(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddResponse("specialized in answering questions", "I don't have documents on that.")

	h := NewQA(backend, newTestRegistry(t))

	res, err := h.Handle(context.Background(), Request{UserInput: "What is the meaning of life?"})
	require.NoError(t, err)

	answer, ok := res.Response.(core.AnswerResponse)
	require.True(t, ok)
	assert.Equal(t, "I don't have documents on that.", answer.Answer)
	assert.Equal(t, 0.5, answer.Confidence)
	assert.Empty(t, res.ToolsUsed)

	// The elicited text is reused; no extra finalize call.
	assert.Len(t, backend.Calls(), 1)
}

func TestQAHistoryWindowAndSanitization(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddResponse("specialized in answering questions", "ok")

	h := NewQA(backend, newTestRegistry(t))

	history := []core.Message{
		core.NewMessage(core.RoleTool, "tool noise"),
		core.NewMessage(core.RoleUser, ""),
	}
	for i := 0; i < 7; i++ {
		history = append(history, core.NewUserMessage("turn"))
	}

	_, err := h.Handle(context.Background(), Request{UserInput: "current", History: history})
	require.NoError(t, err)

	msgs := backend.Calls()[0].Messages
	// Five history messages plus the current input.
	require.Len(t, msgs, 6)
	for _, msg := range msgs {
		assert.NotEqual(t, core.RoleTool, msg.Role)
		assert.NotEmpty(t, msg.Content)
	}
	assert.Equal(t, "current", msgs[5].Content)
}

func TestSummarizationWithTools(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddToolCallResponse("specialized in summarization",
		model.ToolCall{ID: "1", Name: tool.DocumentReaderName, Arguments: `{"query":"sales report"}`},
	)
	backend.AddStructuredResponse("structured summarization result",
		`{"summary":"Sales rose from $50,000 to $60,000.","key_points":["January: $50,000","February: $60,000"]}`)

	h, err := NewSummarization(backend, newTestRegistry(t))
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), Request{UserInput: "Summarize the sales reports"})
	require.NoError(t, err)

	summary, ok := res.Response.(core.SummarizationResponse)
	require.True(t, ok)
	assert.Equal(t, "Sales rose from $50,000 to $60,000.", summary.Summary)
	assert.Len(t, summary.KeyPoints, 2)

	// Omitted fields are backfilled from the tool outcomes.
	assert.Equal(t, []string{tool.DocumentReaderName}, summary.DocumentIDs)
	assert.Greater(t, summary.OriginalLength, 0)
	assert.Equal(t, 0.9, summary.Confidence)
}

func TestSummarizationBindsOnlyDocumentReader(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddToolCallResponse("specialized in summarization",
		model.ToolCall{ID: "1", Name: tool.DocumentReaderName, Arguments: `{"query":"sales"}`},
	)
	backend.AddStructuredResponse("structured summarization result", `{"summary":"s"}`)

	h, err := NewSummarization(backend, newTestRegistry(t))
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), Request{UserInput: "Summarize"})
	require.NoError(t, err)

	defs := backend.Calls()[0].Tools
	require.Len(t, defs, 1)
	assert.Equal(t, tool.DocumentReaderName, defs[0].Name)
}

func TestCalculationWithTools(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddToolCallResponse("specialized in calculations",
		model.ToolCall{ID: "1", Name: tool.DocumentReaderName, Arguments: `{"query":"sales"}`},
		model.ToolCall{ID: "2", Name: tool.CalculatorName, Arguments: `{"expression":"50000 + 60000"}`},
	)
	backend.AddStructuredResponse("structured calculation result",
		`{"expression":"50000 + 60000","result":110000,"explanation":"Sum of January and February sales."}`)

	h, err := NewCalculation(backend, newTestRegistry(t))
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), Request{UserInput: "What is the total of January and February sales?"})
	require.NoError(t, err)

	calc, ok := res.Response.(core.CalculationResponse)
	require.True(t, ok)
	assert.Equal(t, float64(110000), calc.Result)
	assert.Equal(t, "50000 + 60000", calc.Expression)
	assert.Equal(t, []string{tool.DocumentReaderName, tool.CalculatorName}, calc.Sources)
	assert.Equal(t, 0.9, calc.Confidence)
	assert.Equal(t, []string{tool.DocumentReaderName, tool.CalculatorName}, res.ToolsUsed)

	// The finalize message carries the calculator output.
	finalMsg := backend.Calls()[1].Messages[0].Content
	assert.Contains(t, finalMsg, "[calculator] Result: 110000")
}

func TestCalculationNoToolsConfidence(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddResponse("specialized in calculations", "no tools needed")
	backend.AddStructuredResponse("structured calculation result",
		`{"expression":"1+1","result":2,"explanation":"Trivial."}`)

	h, err := NewCalculation(backend, newTestRegistry(t))
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), Request{UserInput: "one plus one"})
	require.NoError(t, err)

	calc := res.Response.(core.CalculationResponse)
	assert.Equal(t, 0.6, calc.Confidence)
	assert.Empty(t, res.ToolsUsed)
}

func TestUnknownToolIsSkipped(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddResponse("answer the original question", "done")
	backend.AddToolCallResponse("specialized in answering questions",
		model.ToolCall{ID: "1", Name: "nonexistent_tool", Arguments: `{}`},
		model.ToolCall{ID: "2", Name: tool.CalculatorName, Arguments: `{"expression":"2+2"}`},
	)

	h := NewQA(backend, newTestRegistry(t))

	res, err := h.Handle(context.Background(), Request{UserInput: "compute"})
	require.NoError(t, err)
	assert.Equal(t, []string{tool.CalculatorName}, res.ToolsUsed)
}

func TestInvalidToolArgumentsBecomeResultText(t *testing.T) {
	backend := model.NewMockModel("test", "mock")
	backend.AddResponse("answer the original question", "done")
	backend.AddToolCallResponse("specialized in answering questions",
		model.ToolCall{ID: "1", Name: tool.CalculatorName, Arguments: `not json`},
	)

	h := NewQA(backend, newTestRegistry(t))

	res, err := h.Handle(context.Background(), Request{UserInput: "compute"})
	require.NoError(t, err)
	assert.Equal(t, []string{tool.CalculatorName}, res.ToolsUsed)

	finalMsg := backend.Calls()[1].Messages[0].Content
	assert.Contains(t, finalMsg, "invalid tool arguments")
}

func TestHandlerIntents(t *testing.T) {
	reg := newTestRegistry(t)

	qa := NewQA(nil, reg)
	assert.Equal(t, core.IntentQA, qa.Intent())

	sum, err := NewSummarization(nil, reg)
	require.NoError(t, err)
	assert.Equal(t, core.IntentSummarization, sum.Intent())

	calc, err := NewCalculation(nil, reg)
	require.NoError(t, err)
	assert.Equal(t, core.IntentCalculation, calc.Intent())
}

func TestSummarizationMissingReaderTool(t *testing.T) {
	_, err := NewSummarization(nil, tool.NewRegistry(tool.NewCalculator()))
	assert.Error(t, err)
}

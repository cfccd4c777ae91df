package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}
}

func TestFunctionToolCall(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo the provided text", echoSchema(),
		func(args map[string]any) (string, error) {
			return args["text"].(string), nil
		})

	result, err := echo.Call(map[string]any{"text": "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestFunctionToolValidationError(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo the provided text", echoSchema(),
		func(args map[string]any) (string, error) {
			return args["text"].(string), nil
		})

	_, err := echo.Call(map[string]any{})
	assert.Error(t, err)

	var toolErr *ToolError
	assert.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool("failing", "Always fails", echoSchema(),
		func(args map[string]any) (string, error) {
			return "", errors.New("boom")
		})

	_, err := failing.Call(map[string]any{"text": "x"})
	assert.Error(t, err)

	var toolErr *ToolError
	assert.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "boom")
}

func TestFunctionToolPreservesToolError(t *testing.T) {
	custom := NewToolError("custom", "rate limited", "RATE_LIMIT")
	failing := NewFunctionTool("custom", "Fails with custom code", echoSchema(),
		func(args map[string]any) (string, error) {
			return "", custom
		})

	_, err := failing.Call(map[string]any{"text": "x"})

	var toolErr *ToolError
	assert.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "RATE_LIMIT", toolErr.Code)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type params struct {
		Query string `json:"query" description:"search query"`
	}

	search := NewFunctionToolFromStruct("search", "Search things", params{},
		func(args map[string]any) (string, error) {
			return "ok", nil
		})

	schema := search.Parameters()
	assert.Equal(t, "object", schema["type"])

	result, err := search.Call(map[string]any{"query": "abc"})
	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
}

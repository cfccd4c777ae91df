package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/docassist/core"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input produced by classifier, handlers
// and memory updater. Tools is empty for plain generation calls.
type Request struct {
	Instructions string            `json:"instructions"` // System prompt
	Messages     []core.Message    `json:"messages"`     // Ordered conversation messages
	Tools        []ToolDefinition  `json:"tools,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Response is the normalized completion returned by a model.
type Response struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal backend capability the assistant core depends on:
// generate text (optionally with tool calling) and generate a structured
// object decoded into out. Transport, auth and endpoint configuration are the
// implementation's concern.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// GenerateStructured requests a JSON object matching the shape of out and
	// decodes it in place. Implementations must not surface tool calls here.
	GenerateStructured(ctx context.Context, req Request, out any) error

	// Info returns information about the model implementation.
	Info() Info
}

// DecodeJSON decodes a model-produced JSON payload into out, tolerating
// surrounding prose and markdown code fences. Providers without a native
// structured-output mode share this post-processing.
func DecodeJSON(text string, out any) error {
	trimmed := strings.TrimSpace(text)
	if i := strings.Index(trimmed, "```"); i >= 0 {
		trimmed = trimmed[i+3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		if j := strings.Index(trimmed, "```"); j >= 0 {
			trimmed = trimmed[:j]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	if !strings.HasPrefix(trimmed, "{") {
		if i := strings.Index(trimmed, "{"); i >= 0 {
			if j := strings.LastIndex(trimmed, "}"); j > i {
				trimmed = trimmed[i : j+1]
			}
		}
	}
	if err := json.Unmarshal([]byte(trimmed), out); err != nil {
		return fmt.Errorf("decode structured response: %w", err)
	}
	return nil
}

package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/docassist/core"
)

type mockRule struct {
	match     string
	response  *Response
	structure string // raw JSON for structured calls
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Rules are matched by substring against the request's instructions and message
// contents, in registration order; the first hit wins. Unmatched Generate calls
// fall back to an echo response, unmatched GenerateStructured calls fail.
type MockModel struct {
	info            Info
	rules           []mockRule
	structuredRules []mockRule
	calls           []Request
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: provider, SupportsTools: true},
	}
}

// AddResponse registers a canned text completion for requests containing match.
func (m *MockModel) AddResponse(match, text string) {
	m.rules = append(m.rules, mockRule{match: match, response: &Response{Text: text}})
}

// AddToolCallResponse registers a canned completion that requests tool calls.
func (m *MockModel) AddToolCallResponse(match string, calls ...ToolCall) {
	m.rules = append(m.rules, mockRule{match: match, response: &Response{ToolCalls: calls}})
}

// AddStructuredResponse registers a canned JSON object for structured requests
// containing match.
func (m *MockModel) AddStructuredResponse(match, rawJSON string) {
	m.structuredRules = append(m.structuredRules, mockRule{match: match, structure: rawJSON})
}

// Calls returns every request seen so far, in order.
func (m *MockModel) Calls() []Request { return m.calls }

func requestText(req Request) string {
	var b strings.Builder
	b.WriteString(req.Instructions)
	for _, msg := range req.Messages {
		b.WriteString("\n")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// Generate implements Model using the registered rules.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	m.calls = append(m.calls, req)
	text := requestText(req)
	for _, r := range m.rules {
		if strings.Contains(text, r.match) {
			return r.response, nil
		}
	}
	last := ""
	for _, msg := range req.Messages {
		if msg.Role == core.RoleUser {
			last = msg.Content
		}
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", last)}, nil
}

// GenerateStructured implements Model using the registered structured rules.
func (m *MockModel) GenerateStructured(_ context.Context, req Request, out any) error {
	m.calls = append(m.calls, req)
	text := requestText(req)
	for _, r := range m.structuredRules {
		if strings.Contains(text, r.match) {
			return DecodeJSON(r.structure, out)
		}
	}
	return fmt.Errorf("mock: no structured response registered for request")
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// Package handler implements the three intent handlers (QA, summarization,
// calculation). All of them share the same two-phase protocol: a
// tool-elicitation model call with the handler's tool registry bound, local
// execution of every requested tool call, then a finalize call that turns the
// accumulated tool results into the handler's typed response. Handlers never
// mutate the session or the document store; they only return data for the
// engine to persist.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/logging"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/tool"
)

// historyWindow bounds how many prior messages a handler feeds to the model.
const historyWindow = 5

// notConfiguredMessage is the canonical no-backend reply text.
const notConfiguredMessage = "Language model not configured. Please configure a model to use this feature."

// Confidence policy defaults backfilled when the backend leaves confidence
// unset (see the per-handler finalize rules).
const (
	confidenceWithTools     = 0.9
	confidencePlainAnswer   = 0.5
	confidenceNoToolsUsed   = 0.6
	confidenceNotConfigured = 0.0
)

// Request carries a handler's per-turn input: the current user utterance and
// the prior session messages (excluding the current one).
type Request struct {
	UserInput string
	History   []core.Message
}

// Result is a handler's output: the typed response plus the names of the
// tools actually invoked during this turn.
type Result struct {
	Response  core.Response
	ToolsUsed []string
}

// Handler produces a typed response for one intent.
type Handler interface {
	// Intent returns the intent type this handler serves.
	Intent() core.IntentType

	// Handle runs the two-phase protocol for the request. Backend failures
	// propagate; tool failures are folded into result text.
	Handle(ctx context.Context, req Request) (Result, error)
}

// Options configures handler construction.
type Options struct {
	Logger logging.Logger
}

// base carries the collaborators and phase helpers shared by all handlers.
type base struct {
	backend model.Model
	tools   *tool.Registry
	logger  logging.Logger
}

func newBase(backend model.Model, tools *tool.Registry, optFns ...func(o *Options)) base {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return base{backend: backend, tools: tools, logger: opts.Logger}
}

// sanitizeHistory drops tool-role and empty messages (which would make the
// message list invalid for the backend) and keeps the trailing window.
func sanitizeHistory(history []core.Message, window int) []core.Message {
	cleaned := make([]core.Message, 0, len(history))
	for _, msg := range history {
		if msg.Role == core.RoleTool || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		cleaned = append(cleaned, msg)
	}
	return core.LastN(cleaned, window)
}

// conversationMessages builds the Phase-1 message list: filtered history plus
// the current user input. The system prompt travels separately as
// Request.Instructions.
func conversationMessages(req Request) []core.Message {
	msgs := sanitizeHistory(req.History, historyWindow)
	return append(msgs, core.NewUserMessage(req.UserInput))
}

// elicit performs the Phase-1 tool-elicitation call with the handler's tools bound.
func (b *base) elicit(ctx context.Context, system string, req Request) (*model.Response, error) {
	resp, err := b.backend.Generate(ctx, model.Request{
		Instructions: system,
		Messages:     conversationMessages(req),
		Tools:        b.tools.Definitions(),
	})
	if err != nil {
		return nil, fmt.Errorf("tool elicitation: %w", err)
	}
	return resp, nil
}

// toolOutcome records one executed tool call.
type toolOutcome struct {
	callID string
	name   string
	result string
}

// executeToolCalls runs every requested call in request order. Unknown tool
// names are skipped (logged, non-fatal); tool failures become descriptive
// result strings so the turn can still finalize. Returns the outcomes plus
// the names of tools actually invoked.
func (b *base) executeToolCalls(calls []model.ToolCall) ([]toolOutcome, []string) {
	var outcomes []toolOutcome
	var used []string

	for _, call := range calls {
		t, ok := b.tools.Get(call.Name)
		if !ok {
			b.logger.Warn("handler.tool.unknown", "tool", call.Name, "call_id", call.ID)
			continue
		}

		args := map[string]interface{}{}
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				outcomes = append(outcomes, toolOutcome{
					callID: call.ID,
					name:   call.Name,
					result: fmt.Sprintf("Error: invalid tool arguments: %v", err),
				})
				used = append(used, call.Name)
				continue
			}
		}

		result, err := t.Call(args)
		if err != nil {
			// Tool errors are valid results, not turn aborts.
			result = fmt.Sprintf("Error executing %s: %v", call.Name, err)
		}
		outcomes = append(outcomes, toolOutcome{callID: call.ID, name: call.Name, result: result})
		used = append(used, call.Name)
	}

	return outcomes, used
}

// resultsBlock concatenates tool results into a single labeled text block,
// preserving request order. Downstream formatting depends on this order being
// deterministic.
func resultsBlock(outcomes []toolOutcome) string {
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		parts = append(parts, fmt.Sprintf("[%s] %s", o.name, o.result))
	}
	return strings.Join(parts, "\n\n")
}

// resultsLength sums the size of all retrieved tool text, used to backfill
// SummarizationResponse.OriginalLength.
func resultsLength(outcomes []toolOutcome) int {
	total := 0
	for _, o := range outcomes {
		total += len(o.result)
	}
	return total
}

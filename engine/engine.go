// Package engine drives one conversation turn through the linear pipeline
// classify -> handle -> update_memory -> done. The engine owns routing and the
// turn state; the classifier, handlers and memory updater stay unaware of each
// other.
package engine

import (
	"context"
	"fmt"

	"github.com/hupe1980/docassist/classify"
	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/handler"
	"github.com/hupe1980/docassist/logging"
	"github.com/hupe1980/docassist/memory"
)

// Pipeline step identifiers, recorded in TurnState.ActionsTaken as the turn
// advances.
const (
	StepClassify     = "classify"
	StepHandle       = "handle"
	StepUpdateMemory = "update_memory"
	StepDone         = "done"
)

// TurnState is the mutable state threaded through one turn. NextStep always
// names the step the engine will run next; after a completed turn it is
// StepDone.
type TurnState struct {
	UserInput string
	History   []core.Message

	Intent   core.Intent
	NextStep string

	ConversationSummary string
	ActiveDocuments     []string

	Response     core.Response
	ToolsUsed    []string
	ActionsTaken []string
}

// Options configures an Engine.
type Options struct {
	Logger logging.Logger
}

// Engine wires the classifier, the intent handlers and the memory updater
// into the turn pipeline. It is stateless across turns; all per-turn data
// lives in TurnState.
type Engine struct {
	classifier *classify.Classifier
	handlers   map[core.IntentType]handler.Handler
	updater    *memory.Updater
	logger     logging.Logger
}

// New constructs an Engine from its collaborators. Every handler registers
// under its own intent; routing for unhandled intents falls back to qa.
func New(classifier *classify.Classifier, handlers []handler.Handler, updater *memory.Updater, optFns ...func(o *Options)) (*Engine, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	byIntent := make(map[core.IntentType]handler.Handler, len(handlers))
	for _, h := range handlers {
		if _, dup := byIntent[h.Intent()]; dup {
			return nil, fmt.Errorf("duplicate handler for intent %q", h.Intent())
		}
		byIntent[h.Intent()] = h
	}
	if _, ok := byIntent[core.IntentQA]; !ok {
		return nil, fmt.Errorf("missing handler for fallback intent %q", core.IntentQA)
	}

	return &Engine{
		classifier: classifier,
		handlers:   byIntent,
		updater:    updater,
		logger:     opts.Logger,
	}, nil
}

// Run executes a full turn over the given state. Classification and handler
// failures abort the turn; a memory update failure is logged and the prior
// memory is carried forward, since the response already exists at that point.
func (e *Engine) Run(ctx context.Context, state TurnState) (TurnState, error) {
	state.NextStep = StepClassify

	intent, route, err := e.classifier.Classify(ctx, state.UserInput, state.History)
	if err != nil {
		return state, err
	}
	state.Intent = intent
	state.ActionsTaken = append(state.ActionsTaken, StepClassify)
	state.NextStep = StepHandle

	h, ok := e.handlers[route]
	if !ok {
		h = e.handlers[core.IntentQA]
		route = core.IntentQA
	}

	e.logger.Debug("engine.route", "intent", string(intent.Type), "handler", string(route))

	res, err := h.Handle(ctx, handler.Request{UserInput: state.UserInput, History: state.History})
	if err != nil {
		return state, err
	}
	state.Response = res.Response
	state.ToolsUsed = res.ToolsUsed
	state.ActionsTaken = append(state.ActionsTaken, StepHandle)
	state.NextStep = StepUpdateMemory

	mem, err := e.updater.Update(ctx, state.UserInput, state.Response, state.History)
	if err != nil {
		e.logger.Warn("engine.memory.failed", "error", err)
	} else {
		state.ConversationSummary = mem.Summary
		state.ActiveDocuments = mem.ActiveDocuments
	}
	state.ActionsTaken = append(state.ActionsTaken, StepUpdateMemory)
	state.NextStep = StepDone

	return state, nil
}

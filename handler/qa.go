package handler

import (
	"context"
	"fmt"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/prompt"
	"github.com/hupe1980/docassist/tool"
)

// QA answers questions grounded in retrieved document content. It finalizes
// with a tool-free plain-text call and builds the AnswerResponse itself.
type QA struct {
	base
}

// NewQA constructs the QA handler. The registry should contain the calculator
// and the document reader.
func NewQA(backend model.Model, tools *tool.Registry, optFns ...func(o *Options)) *QA {
	return &QA{base: newBase(backend, tools, optFns...)}
}

// Intent implements Handler.
func (h *QA) Intent() core.IntentType { return core.IntentQA }

// Handle implements Handler.
func (h *QA) Handle(ctx context.Context, req Request) (Result, error) {
	if h.backend == nil {
		resp, err := core.NewAnswerResponse(req.UserInput, notConfiguredMessage, nil, confidenceNotConfigured)
		if err != nil {
			return Result{}, err
		}
		return Result{Response: resp, ToolsUsed: []string{}}, nil
	}

	elicited, err := h.elicit(ctx, prompt.QASystem, req)
	if err != nil {
		return Result{}, err
	}

	outcomes, used := h.executeToolCalls(elicited.ToolCalls)

	answer, err := h.finalize(ctx, req, elicited, outcomes)
	if err != nil {
		return Result{}, err
	}

	confidence := confidencePlainAnswer
	if len(outcomes) > 0 {
		confidence = confidenceWithTools
	}

	resp, err := core.NewAnswerResponse(req.UserInput, answer, used, confidence)
	if err != nil {
		return Result{}, err
	}

	h.logger.Debug("handler.qa.done", "tools_used", len(used), "confidence", confidence)

	return Result{Response: resp, ToolsUsed: used}, nil
}

// finalize obtains the plain-text answer. With tool results it issues a fresh
// tool-free call over a synthesized message; without them it re-invokes with
// the original conversation context. If the elicitation already produced text
// and requested no tools, that text is the answer.
func (h *QA) finalize(ctx context.Context, req Request, elicited *model.Response, outcomes []toolOutcome) (string, error) {
	if len(outcomes) == 0 && elicited.Text != "" {
		return elicited.Text, nil
	}

	r := model.Request{Instructions: prompt.QASystem}
	if len(outcomes) > 0 {
		r.Messages = []core.Message{
			core.NewUserMessage(prompt.ToolResultsSynthesis(req.UserInput, resultsBlock(outcomes))),
		}
	} else {
		r.Messages = conversationMessages(req)
	}

	final, err := h.backend.Generate(ctx, r)
	if err != nil {
		return "", fmt.Errorf("finalize answer: %w", err)
	}
	return final.Text, nil
}

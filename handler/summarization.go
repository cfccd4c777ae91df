package handler

import (
	"context"
	"fmt"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/prompt"
	"github.com/hupe1980/docassist/tool"
)

// Summarization condenses retrieved documents into a structured summary. It
// binds only the document reader and finalizes through the structured path.
type Summarization struct {
	base
}

// NewSummarization constructs the summarization handler. The registry is
// narrowed to the document reader; an error means the reader is missing.
func NewSummarization(backend model.Model, tools *tool.Registry, optFns ...func(o *Options)) (*Summarization, error) {
	readerOnly, err := tools.Subset(tool.DocumentReaderName)
	if err != nil {
		return nil, fmt.Errorf("summarization handler: %w", err)
	}
	return &Summarization{base: newBase(backend, readerOnly, optFns...)}, nil
}

// Intent implements Handler.
func (h *Summarization) Intent() core.IntentType { return core.IntentSummarization }

// Handle implements Handler.
func (h *Summarization) Handle(ctx context.Context, req Request) (Result, error) {
	if h.backend == nil {
		resp, err := core.NewSummarizationResponse(notConfiguredMessage, nil, 0, nil, confidenceNotConfigured)
		if err != nil {
			return Result{}, err
		}
		return Result{Response: resp, ToolsUsed: []string{}}, nil
	}

	elicited, err := h.elicit(ctx, prompt.SummarizationSystem, req)
	if err != nil {
		return Result{}, err
	}

	outcomes, used := h.executeToolCalls(elicited.ToolCalls)

	finalReq := model.Request{
		Instructions: prompt.SummarizationStructured,
		Messages: []core.Message{
			core.NewUserMessage(prompt.ToolResultsSynthesis(req.UserInput, resultsBlock(outcomes))),
		},
	}

	var payload core.SummarizationResponse
	if err := h.backend.GenerateStructured(ctx, finalReq, &payload); err != nil {
		return Result{}, fmt.Errorf("finalize summary: %w", err)
	}

	// Backfill fields the model commonly omits. The tool names double as
	// document identifiers when the model supplies none.
	if len(payload.DocumentIDs) == 0 {
		payload.DocumentIDs = used
	}
	if payload.OriginalLength == 0 {
		payload.OriginalLength = resultsLength(outcomes)
	}
	if payload.Confidence == 0 {
		payload.Confidence = confidenceNoToolsUsed
		if len(outcomes) > 0 {
			payload.Confidence = confidenceWithTools
		}
	}

	resp, err := core.NewSummarizationResponse(payload.Summary, payload.KeyPoints, payload.OriginalLength, payload.DocumentIDs, payload.Confidence)
	if err != nil {
		return Result{}, fmt.Errorf("finalize summary: %w", err)
	}

	h.logger.Debug("handler.summarization.done", "tools_used", len(used), "confidence", resp.Confidence)

	return Result{Response: resp, ToolsUsed: used}, nil
}

package handler

import (
	"context"
	"fmt"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/prompt"
	"github.com/hupe1980/docassist/tool"
)

// Calculation performs arithmetic over numbers extracted from documents. It
// binds both the document reader and the calculator and finalizes into a
// structured CalculationResponse carrying the numeric result.
type Calculation struct {
	base
}

// NewCalculation constructs the calculation handler. The registry is narrowed
// to the calculator and the document reader; an error means one is missing.
func NewCalculation(backend model.Model, tools *tool.Registry, optFns ...func(o *Options)) (*Calculation, error) {
	calcTools, err := tools.Subset(tool.CalculatorName, tool.DocumentReaderName)
	if err != nil {
		return nil, fmt.Errorf("calculation handler: %w", err)
	}
	return &Calculation{base: newBase(backend, calcTools, optFns...)}, nil
}

// Intent implements Handler.
func (h *Calculation) Intent() core.IntentType { return core.IntentCalculation }

// Handle implements Handler.
func (h *Calculation) Handle(ctx context.Context, req Request) (Result, error) {
	if h.backend == nil {
		resp, err := core.NewCalculationResponse("", 0, notConfiguredMessage, "", nil, confidenceNotConfigured)
		if err != nil {
			return Result{}, err
		}
		return Result{Response: resp, ToolsUsed: []string{}}, nil
	}

	elicited, err := h.elicit(ctx, prompt.CalculationSystem, req)
	if err != nil {
		return Result{}, err
	}

	outcomes, used := h.executeToolCalls(elicited.ToolCalls)

	finalReq := model.Request{
		Instructions: prompt.CalculationStructured,
		Messages: []core.Message{
			core.NewUserMessage(prompt.ToolResultsSynthesis(req.UserInput, resultsBlock(outcomes))),
		},
	}

	var payload core.CalculationResponse
	if err := h.backend.GenerateStructured(ctx, finalReq, &payload); err != nil {
		return Result{}, fmt.Errorf("finalize calculation: %w", err)
	}

	if len(payload.Sources) == 0 {
		payload.Sources = used
	}
	if payload.Confidence == 0 {
		payload.Confidence = confidenceNoToolsUsed
		if len(outcomes) > 0 {
			payload.Confidence = confidenceWithTools
		}
	}

	resp, err := core.NewCalculationResponse(payload.Expression, payload.Result, payload.Explanation, payload.Units, payload.Sources, payload.Confidence)
	if err != nil {
		return Result{}, fmt.Errorf("finalize calculation: %w", err)
	}

	h.logger.Debug("handler.calculation.done", "tools_used", len(used), "result", resp.Result, "confidence", resp.Confidence)

	return Result{Response: resp, ToolsUsed: used}, nil
}

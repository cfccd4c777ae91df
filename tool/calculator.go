package tool

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/logging"
)

// CalculatorName is the registry key of the calculator tool.
const CalculatorName = "calculator"

// allowedExprChars is the strict character allow-list applied before any
// parsing: digits, whitespace and + - * / ( ) . % only. Everything else is
// rejected up front so no identifier ever reaches the evaluator.
const allowedExprChars = "0123456789 \t\n+-*/().%"

// Calculator evaluates basic arithmetic expressions with the sandboxed
// recursive-descent evaluator. Evaluation failures are returned as descriptive
// result strings rather than errors so a turn can still finalize.
type Calculator struct {
	logger logging.Logger
}

// CalculatorOptions configures the calculator tool.
type CalculatorOptions struct {
	Logger logging.Logger
}

// NewCalculator constructs the calculator tool.
func NewCalculator(optFns ...func(o *CalculatorOptions)) *Calculator {
	opts := CalculatorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Calculator{logger: opts.Logger}
}

// Name implements Tool.
func (c *Calculator) Name() string { return CalculatorName }

// Description implements Tool.
func (c *Calculator) Description() string {
	return "Evaluate a mathematical expression safely. Only basic arithmetic is supported: +, -, *, /, %, **, and parentheses."
}

// Parameters implements Tool.
func (c *Calculator) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"expression": map[string]interface{}{
				"type":        "string",
				"description": "A mathematical expression to evaluate (e.g. \"2 + 2\", \"10 * 5 / 2\")",
			},
		},
		"required": []string{"expression"},
	}
}

// Call implements Tool. Every invocation is logged with input and output.
func (c *Calculator) Call(args map[string]interface{}) (string, error) {
	expression, _ := args["expression"].(string)
	start := time.Now()

	result := c.evaluate(expression)

	c.logger.Info("tool.call",
		"tool", CalculatorName,
		"input", expression,
		"output", result,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (c *Calculator) evaluate(expression string) string {
	if strings.TrimSpace(expression) == "" || !isAllowedExpression(expression) {
		return fmt.Sprintf("Invalid expression: %s. Only basic math operations are allowed.", expression)
	}

	value, err := evalExpression(strings.TrimSpace(expression))
	switch {
	case errors.Is(err, errDivisionByZero):
		return "Error: Division by zero"
	case err != nil:
		return fmt.Sprintf("Error: Invalid syntax in expression '%s'", expression)
	}

	return fmt.Sprintf("Result: %s", core.FormatNumber(value))
}

func isAllowedExpression(expression string) bool {
	for _, r := range expression {
		if r > 0x7f || !strings.ContainsRune(allowedExprChars, r) {
			return false
		}
	}
	return true
}

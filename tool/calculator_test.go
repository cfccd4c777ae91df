package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatorCall(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name       string
		expression string
		expected   string
	}{
		{name: "simple addition", expression: "2 + 2", expected: "Result: 4"},
		{name: "precedence", expression: "2 + 3 * 4", expected: "Result: 14"},
		{name: "parentheses", expression: "(2 + 3) * 4", expected: "Result: 20"},
		{name: "division", expression: "10 / 4", expected: "Result: 2.5"},
		{name: "modulo", expression: "10 % 3", expected: "Result: 1"},
		{name: "power", expression: "2 ** 10", expected: "Result: 1024"},
		{name: "power right associative", expression: "2 ** 3 ** 2", expected: "Result: 512"},
		{name: "unary minus", expression: "-5 + 3", expected: "Result: -2"},
		{name: "nested parens", expression: "((1 + 2) * (3 + 4))", expected: "Result: 21"},
		{name: "floats", expression: "0.1 + 0.2 * 10", expected: "Result: 2.1"},
		{name: "division by zero", expression: "1 / 0", expected: "Error: Division by zero"},
		{name: "modulo by zero", expression: "5 % 0", expected: "Error: Division by zero"},
		{name: "dangling operator", expression: "2 +", expected: "Error: Invalid syntax in expression '2 +'"},
		{name: "unbalanced paren", expression: "(2 + 3", expected: "Error: Invalid syntax in expression '(2 + 3'"},
		{name: "letters rejected", expression: "import os", expected: "Invalid expression: import os. Only basic math operations are allowed."},
		{name: "call rejected", expression: "__import__('os')", expected: "Invalid expression: __import__('os'). Only basic math operations are allowed."},
		{name: "empty", expression: "", expected: "Invalid expression: . Only basic math operations are allowed."},
		{name: "whitespace only", expression: "   ", expected: "Invalid expression:    . Only basic math operations are allowed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Call(map[string]interface{}{"expression": tt.expression})
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCalculatorCallMissingExpression(t *testing.T) {
	calc := NewCalculator()

	result, err := calc.Call(map[string]interface{}{})
	assert.NoError(t, err)
	assert.Contains(t, result, "Invalid expression")
}

func TestCalculatorMetadata(t *testing.T) {
	calc := NewCalculator()

	assert.Equal(t, CalculatorName, calc.Name())
	assert.NotEmpty(t, calc.Description())

	params := calc.Parameters()
	assert.Equal(t, "object", params["type"])
	props, ok := params["properties"].(map[string]interface{})
	assert.True(t, ok)
	assert.Contains(t, props, "expression")
}

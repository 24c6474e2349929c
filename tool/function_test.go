package tool

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ Tool = (*FunctionTool)(nil)

func sumTool() *FunctionTool {
	return NewFunctionTool(
		"calculate_sum",
		"Calculate the sum of two numbers",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"a": map[string]any{"type": "number"},
				"b": map[string]any{"type": "number"},
			},
			"required": []string{"a", "b"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

func TestFunctionToolCall(t *testing.T) {
	result, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionToolValidation(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "calculate_sum", toolErr.Tool)

	_, err = sumTool().Call(context.Background(), map[string]any{"a": 2.0, "b": "three"})
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool("failing", "Always fails", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("boom")
		})

	_, err := failing.Call(context.Background(), nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

func TestFunctionToolPreservesCustomCode(t *testing.T) {
	custom := NewFunctionTool("custom", "Returns a custom tool error", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, NewToolError("custom", "quota exceeded", "RATE_LIMITED")
		})

	_, err := custom.Call(context.Background(), nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type searchArgs struct {
		Query string `json:"query" description:"Search query"`
		Limit int    `json:"limit,omitempty"`
	}

	search := NewFunctionToolFromStruct("web_search", "Search the web", searchArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			return fmt.Sprintf("results for %v", args["query"]), nil
		})

	schema := search.Parameters()
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Equal(t, []string{"query"}, schema["required"])

	_, err := search.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)

	result, err := search.Call(context.Background(), map[string]any{"query": "paperclips"})
	require.NoError(t, err)
	assert.Equal(t, "results for paperclips", result)
}

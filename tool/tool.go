// Package tool implements the tool side of the coordination protocol: plain
// callable capabilities (Tool, FunctionTool) plus the BoundTool adapter that
// registers a tool as a field resource and gates execution on the resource's
// coordination state (lock ownership, field membership).
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentfield/internal/util"
)

// Tool defines a callable capability that can participate in a field.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Define a proper JSON schema for parameters
//   - Be safe for concurrent use if shared between fields
type Tool interface {
	// Name returns the unique identifier for this tool. It doubles as the
	// resource name when the tool is bound into a field.
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-validated arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError is re-exported so callers can branch on argument
// validation failures without importing internal packages.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"` // VALIDATION_ERROR, EXECUTION_ERROR, ...
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

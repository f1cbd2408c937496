// Package tool implements the function / tool calling subsystem that lets
// agents invoke structured capabilities (commerce APIs, knowledge lookup)
// with schema validated arguments and consistent error handling. Failures are
// always converted to structured payloads: a tool call must never abort the
// enclosing model round.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/model"
)

// EscalateName is the reserved pseudo-tool name. It appears in the
// model-facing catalog like any other tool but is intercepted by the session
// layer before generic dispatch: executing it is a session-scoped state
// transition, not a backend call.
const EscalateName = "escalate"

// Tool defines the interface for capabilities the model may request.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case) and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description provided to the LLM.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed
// information.
type ValidationError = util.ValidationError

// Error represents errors that occur during tool execution.
type Error struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a new Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}

// EscalateDefinition returns the model-facing catalog entry for the reserved
// escalate pseudo-tool.
func EscalateDefinition() model.ToolDefinition {
	return model.ToolDefinition{
		Name: EscalateName,
		Description: "Escalate to a human when you cannot safely proceed, when policy requires it, " +
			"or when the customer request is outside your scope. Call this instead of replying.",
		Parameters: map[string]any{
			"type":     "object",
			"required": []string{"reason", "summary_for_team"},
			"properties": map[string]any{
				"reason": map[string]any{
					"type":        "string",
					"description": "Why escalation is needed",
				},
				"summary_for_team": map[string]any{
					"type":        "string",
					"description": "Short structured summary: customer, issue, what was tried, suggested next steps",
				},
			},
		},
	}
}

package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumTool() *FunctionTool {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
	return NewFunctionTool("sum", "Add numbers", params, func(_ context.Context, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})
}

func TestFunctionTool_Success(t *testing.T) {
	result, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	_, err := sumTool().Call(context.Background(), map[string]any{"a": 2.0})
	require.Error(t, err)

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "sum", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := NewFunctionTool("boom", "Always fails", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		})

	_, err := failing.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "backend unavailable")
}

func TestFunctionTool_CustomErrorPassthrough(t *testing.T) {
	custom := NewError("custom", "rate limited", "RATE_LIMITED")
	failing := NewFunctionTool("custom", "Fails with custom code", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, custom
		})

	_, err := failing.Call(context.Background(), map[string]any{})
	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

// -------------------- Registry --------------------

func TestRegistry_ExecuteSuccess(t *testing.T) {
	r := NewRegistry()
	r.Register(sumTool())

	out := r.Execute(context.Background(), "sum", map[string]any{"a": 1.0, "b": 2.0})

	var result float64
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3.0, result)
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	out := r.Execute(context.Background(), "no_such_tool", map[string]any{})

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "Unknown tool: no_such_tool")
}

func TestRegistry_ExecuteToolError(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFunctionTool("boom", "Always fails", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		}))

	out := r.Execute(context.Background(), "boom", map[string]any{})

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "backend unavailable")
}

func TestRegistry_ExecuteRecoversPanic(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFunctionTool("panicky", "Panics", map[string]any{"type": "object"},
		func(_ context.Context, _ map[string]any) (any, error) {
			panic("boom")
		}))

	out := r.Execute(context.Background(), "panicky", map[string]any{})

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, false, payload["success"])
}

func TestRegistry_Definitions(t *testing.T) {
	r := NewRegistry()
	r.Register(sumTool())

	defs := r.Definitions("sum", EscalateName, "unknown")

	require.Len(t, defs, 2)
	assert.Equal(t, "sum", defs[0].Name)
	assert.Equal(t, EscalateName, defs[1].Name)
}

func TestEscalateDefinition(t *testing.T) {
	def := EscalateDefinition()
	assert.Equal(t, EscalateName, def.Name)
	assert.ElementsMatch(t, []string{"reason", "summary_for_team"}, def.Parameters["required"])
}

package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoExecutor(calls *[]string) ToolExecutor {
	return func(_ context.Context, name string, args map[string]any) string {
		*calls = append(*calls, name)
		out, _ := json.Marshal(map[string]any{"success": true, "tool": name, "args": args})
		return string(out)
	}
}

func TestGateway_ContentOnly(t *testing.T) {
	llm := NewScriptedModel(&Response{
		Content: "All good.",
		Usage:   Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	})
	gw := NewGateway(llm)

	var calls []string
	res, err := gw.Invoke(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil, echoExecutor(&calls))
	require.NoError(t, err)

	assert.Equal(t, "All good.", res.Content)
	assert.Empty(t, res.ToolCalls)
	assert.Empty(t, calls)
	assert.False(t, res.RoundLimitExceeded)
	assert.Equal(t, 15, res.Usage.TotalTokens)
}

func TestGateway_ToolRound(t *testing.T) {
	llm := NewScriptedModel(
		&Response{
			ToolCalls: []ToolCall{
				{ID: "tc1", Name: "lookup_order", Arguments: `{"orderId":"#1234"}`},
				{ID: "tc2", Name: "lookup_customer", Arguments: `{"email":"a@b.c"}`},
			},
			Usage: Usage{TotalTokens: 20},
		},
		&Response{Content: "Found it.", Usage: Usage{TotalTokens: 7}},
	)
	gw := NewGateway(llm)

	var calls []string
	res, err := gw.Invoke(context.Background(), []ChatMessage{{Role: "user", Content: "where is my order"}}, nil, echoExecutor(&calls))
	require.NoError(t, err)

	assert.Equal(t, "Found it.", res.Content)
	// Calls execute sequentially in request order.
	assert.Equal(t, []string{"lookup_order", "lookup_customer"}, calls)
	require.Len(t, res.ToolCalls, 2)
	assert.Equal(t, "lookup_order", res.ToolCalls[0].Name)
	assert.Equal(t, "#1234", res.ToolCalls[0].Arguments["orderId"])
	assert.Equal(t, 27, res.Usage.TotalTokens)

	// The second request must carry the assistant tool-call message plus one
	// tool message per call.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	second := reqs[1].Messages
	require.Len(t, second, 4)
	assert.Equal(t, "assistant", second[1].Role)
	require.Len(t, second[1].ToolCalls, 2)
	assert.Equal(t, "tool", second[2].Role)
	assert.Equal(t, "tc1", second[2].ToolCallID)
	assert.Equal(t, "tool", second[3].Role)
	assert.Equal(t, "tc2", second[3].ToolCallID)
}

func TestGateway_MalformedArguments(t *testing.T) {
	llm := NewScriptedModel(
		&Response{ToolCalls: []ToolCall{{ID: "tc1", Name: "lookup_order", Arguments: `{not json`}}},
		&Response{Content: "done"},
	)
	gw := NewGateway(llm)

	var seen map[string]any
	exec := func(_ context.Context, _ string, args map[string]any) string {
		seen = args
		return `{"success":false,"error":"missing orderId"}`
	}

	res, err := gw.Invoke(context.Background(), nil, nil, exec)
	require.NoError(t, err)

	// Decode failure degrades to an empty mapping; the round continues.
	assert.NotNil(t, seen)
	assert.Empty(t, seen)
	assert.Equal(t, "done", res.Content)
}

func TestGateway_RoundLimitExceeded(t *testing.T) {
	loop := &Response{ToolCalls: []ToolCall{{ID: "tc", Name: "lookup_order", Arguments: `{}`}}}
	llm := NewScriptedModel(loop, loop, loop, loop, loop, loop, loop)
	gw := NewGateway(llm, func(o *GatewayOptions) { o.MaxToolRounds = 3 })

	var calls []string
	res, err := gw.Invoke(context.Background(), nil, nil, echoExecutor(&calls))
	require.NoError(t, err)

	assert.True(t, res.RoundLimitExceeded)
	assert.Empty(t, res.Content)
	assert.Len(t, calls, 3)
}

func TestGateway_ModelError(t *testing.T) {
	llm := NewScriptedModel()
	llm.FailWith(errors.New("provider down"))
	gw := NewGateway(llm)

	var calls []string
	_, err := gw.Invoke(context.Background(), nil, nil, echoExecutor(&calls))
	assert.Error(t, err)
	assert.Empty(t, calls)
}

func TestGateway_DoesNotMutateInput(t *testing.T) {
	llm := NewScriptedModel(
		&Response{ToolCalls: []ToolCall{{ID: "tc", Name: "x", Arguments: `{}`}}},
		&Response{Content: "ok"},
	)
	gw := NewGateway(llm)

	input := []ChatMessage{{Role: "user", Content: "hi"}}
	var calls []string
	_, err := gw.Invoke(context.Background(), input, nil, echoExecutor(&calls))
	require.NoError(t, err)
	assert.Len(t, input, 1)
}

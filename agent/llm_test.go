package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/model"
)

func noopExecutor(_ context.Context, _ string, _ map[string]any) string {
	return `{"success":true}`
}

func TestLLMAgent_Act_Content(t *testing.T) {
	llm := model.NewScriptedModel(&model.Response{Content: "Classification: SHIPPING_DELAY"})
	gw := model.NewGateway(llm)

	a := NewLLMAgent("RouterAgent", "You are the router.", gw, func(o *LLMAgentOptions) {
		o.Executor = noopExecutor
	})

	msg, err := a.Act(context.Background(), []core.Message{core.NewUserMessage("Where is my order?")})
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, core.RoleAgent, msg.Role)
	assert.Equal(t, "RouterAgent", msg.Sender)
	assert.Equal(t, "Classification: SHIPPING_DELAY", msg.Content)
}

func TestLLMAgent_Act_HistoryRendering(t *testing.T) {
	llm := model.NewScriptedModel(&model.Response{Content: "ok"})
	gw := model.NewGateway(llm)

	a := NewLLMAgent("PolicyAgent", "You are policy.", gw, func(o *LLMAgentOptions) {
		o.Executor = noopExecutor
	})

	history := []core.Message{
		core.NewSystemMessage("team framing"),
		core.NewUserMessage("Where is my order?"),
		{Role: core.RoleAgent, Content: "SHIPPING_DELAY", Sender: "RouterAgent"},
		{Role: core.RoleAgent, Content: "earlier note", Sender: "PolicyAgent"},
	}

	_, err := a.Act(context.Background(), history)
	require.NoError(t, err)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	msgs := reqs[0].Messages
	require.Len(t, msgs, 4)

	// Own system prompt replaces shared system framing.
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "You are policy.", msgs[0].Content)
	// Customer passthrough.
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "Where is my order?", msgs[1].Content)
	// Peer messages arrive as attributed quotations.
	assert.Equal(t, "user", msgs[2].Role)
	assert.Equal(t, "[RouterAgent]: SHIPPING_DELAY", msgs[2].Content)
	// Own earlier messages come back as assistant turns.
	assert.Equal(t, "assistant", msgs[3].Role)
	assert.Equal(t, "earlier note", msgs[3].Content)
}

func TestLLMAgent_Act_PlaceholderOnToolOnlyTurn(t *testing.T) {
	llm := model.NewScriptedModel(
		&model.Response{ToolCalls: []model.ToolCall{{ID: "tc1", Name: "lookup", Arguments: `{}`}}},
		// Script exhaustion then yields an empty final response.
	)
	gw := model.NewGateway(llm)

	collector := core.NewCollector()
	a := NewLLMAgent("ExecutorAgent", "You execute.", gw, func(o *LLMAgentOptions) {
		o.Executor = noopExecutor
		o.Collector = collector
	})

	msg, err := a.Act(context.Background(), []core.Message{core.NewUserMessage("do it")})
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, NoTextPlaceholder, msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "ExecutorAgent", msg.ToolCalls[0].Agent)

	records := collector.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "lookup", records[0].Name)
	assert.Equal(t, "ExecutorAgent", records[0].Agent)
}

func TestLLMAgent_Act_SilentTurn(t *testing.T) {
	llm := model.NewScriptedModel() // empty script: no content, no tool calls
	gw := model.NewGateway(llm)

	a := NewLLMAgent("RouterAgent", "router", gw, func(o *LLMAgentOptions) {
		o.Executor = noopExecutor
	})

	msg, err := a.Act(context.Background(), []core.Message{core.NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Nil(t, msg)
}

package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/model"
)

// NoTextPlaceholder stands in for an agent message that carried tool calls
// but no final text. It keeps the turn visible in the history without
// leaking provider internals to peers.
const NoTextPlaceholder = "(no text output)"

// LLMAgentOptions configure an LLMAgent instance.
type LLMAgentOptions struct {
	// Tools is the catalog slice exposed to the model for this agent.
	Tools []model.ToolDefinition

	// Executor resolves tool calls requested during this agent's turns.
	Executor model.ToolExecutor

	// Collector receives attributed tool call records across the session.
	Collector *core.Collector

	Logger zerolog.Logger
}

// LLMAgent is a model-backed pipeline participant. It owns a system prompt
// and a tool subset; everything else (history, execution, persistence) is
// injected.
type LLMAgent struct {
	name         string
	systemPrompt string
	gateway      *model.Gateway
	tools        []model.ToolDefinition
	executor     model.ToolExecutor
	collector    *core.Collector
	logger       zerolog.Logger
}

// NewLLMAgent creates an agent with the given name and system prompt.
func NewLLMAgent(name, systemPrompt string, gateway *model.Gateway, optFns ...func(o *LLMAgentOptions)) *LLMAgent {
	opts := LLMAgentOptions{
		Logger: zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &LLMAgent{
		name:         name,
		systemPrompt: systemPrompt,
		gateway:      gateway,
		tools:        opts.Tools,
		executor:     opts.Executor,
		collector:    opts.Collector,
		logger:       opts.Logger,
	}
}

// Name implements core.Agent.
func (a *LLMAgent) Name() string { return a.name }

// Act renders the shared history from this agent's perspective, resolves one
// tool-calling turn and returns the resulting message. A turn that produced
// neither text nor tool calls yields nil: the agent stays silent.
func (a *LLMAgent) Act(ctx context.Context, history []core.Message) (*core.Message, error) {
	messages := a.render(history)

	res, err := a.gateway.Invoke(ctx, messages, a.tools, a.executor)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.name, err)
	}

	records := res.ToolCalls
	for i := range records {
		records[i].Agent = a.name
	}
	if a.collector != nil && len(records) > 0 {
		a.collector.Append(records...)
	}

	a.logger.Debug().
		Str("agent", a.name).
		Int("tool_calls", len(records)).
		Bool("round_limit_exceeded", res.RoundLimitExceeded).
		Msg("agent.turn.complete")

	content := res.Content
	if content == "" {
		if len(records) == 0 {
			return nil, nil
		}
		content = NoTextPlaceholder
	}

	return &core.Message{
		Role:      core.RoleAgent,
		Content:   content,
		Sender:    a.name,
		ToolCalls: records,
	}, nil
}

// render maps the shared three-role history onto the provider taxonomy as
// seen by this agent: its own prompt becomes the system message, shared
// system framing is dropped, customer messages pass through, its own prior
// messages become assistant turns and peer agent messages arrive as quoted
// user messages.
func (a *LLMAgent) render(history []core.Message) []model.ChatMessage {
	messages := make([]model.ChatMessage, 0, len(history)+1)
	messages = append(messages, model.ChatMessage{Role: "system", Content: a.systemPrompt})

	for _, msg := range history {
		switch msg.Role {
		case core.RoleSystem:
			// Each agent sees only its own framing.
		case core.RoleUser:
			messages = append(messages, model.ChatMessage{Role: "user", Content: msg.Content})
		case core.RoleAgent:
			if msg.Sender == a.name {
				messages = append(messages, model.ChatMessage{Role: "assistant", Content: msg.Content})
				continue
			}
			messages = append(messages, model.ChatMessage{
				Role:    "user",
				Content: fmt.Sprintf("[%s]: %s", msg.Sender, msg.Content),
			})
		}
	}

	return messages
}

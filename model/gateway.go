package model

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/hupe1980/supportmesh/core"
)

// DefaultMaxToolRounds bounds the number of model round trips per agent turn.
const DefaultMaxToolRounds = 5

// ToolExecutor resolves a tool call requested by the model into a normalized
// JSON payload. Implementations must never fail: execution errors are
// reported inside the payload so the model can adapt.
type ToolExecutor func(ctx context.Context, name string, args map[string]any) string

// Result is the outcome of one fully resolved agent turn.
type Result struct {
	// Content is the model's final text. Empty when the round limit was
	// exhausted before a content-only response arrived.
	Content string

	// ToolCalls are the executed calls in call order, without agent
	// attribution (the caller tags them).
	ToolCalls []core.ToolCallRecord

	// Usage accumulates token accounting across all rounds.
	Usage Usage

	// RoundLimitExceeded marks a degraded turn: max rounds were spent
	// without a final content-only response. Not a fatal condition.
	RoundLimitExceeded bool
}

// GatewayOptions configure a Gateway.
type GatewayOptions struct {
	MaxToolRounds int
	Logger        zerolog.Logger
}

// Gateway drives the tool-calling round trip between one agent and the
// model: it repeatedly sends the running message list plus the tool catalog,
// executes any requested tool calls in order, feeds the results back as tool
// messages, and stops when the model answers with plain content or the round
// limit is reached.
type Gateway struct {
	llm       Model
	maxRounds int
	logger    zerolog.Logger
}

// NewGateway constructs a Gateway around the given model.
func NewGateway(llm Model, optFns ...func(o *GatewayOptions)) *Gateway {
	opts := GatewayOptions{
		MaxToolRounds: DefaultMaxToolRounds,
		Logger:        zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxToolRounds < 1 {
		opts.MaxToolRounds = 1
	}
	return &Gateway{llm: llm, maxRounds: opts.MaxToolRounds, logger: opts.Logger}
}

// Invoke resolves one agent turn. The messages slice is not mutated; tool
// rounds extend a private copy. Model invocation failures propagate as
// errors; tool failures never do.
func (g *Gateway) Invoke(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, exec ToolExecutor) (*Result, error) {
	running := make([]ChatMessage, len(messages))
	copy(running, messages)

	res := &Result{}

	for round := 0; round < g.maxRounds; round++ {
		resp, err := g.llm.Generate(ctx, Request{Messages: running, Tools: tools})
		if err != nil {
			return nil, err
		}
		res.Usage.Add(resp.Usage)

		if len(resp.ToolCalls) == 0 {
			res.Content = resp.Content
			g.logger.Debug().
				Int("rounds", round+1).
				Int("tool_calls", len(res.ToolCalls)).
				Int("total_tokens", res.Usage.TotalTokens).
				Msg("model.turn.settled")
			return res, nil
		}

		running = append(running, ChatMessage{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			args := decodeArguments(tc.Arguments)
			out := exec(ctx, tc.Name, args)

			res.ToolCalls = append(res.ToolCalls, core.ToolCallRecord{
				Name:      tc.Name,
				Arguments: args,
				Result:    json.RawMessage(out),
			})

			running = append(running, ChatMessage{
				Role:       "tool",
				Content:    out,
				ToolCallID: tc.ID,
			})
		}
	}

	// Round limit exhausted: degraded turn, caller handles empty content.
	res.RoundLimitExceeded = true
	g.logger.Warn().
		Int("max_rounds", g.maxRounds).
		Int("tool_calls", len(res.ToolCalls)).
		Msg("model.turn.round_limit_exceeded")
	return res, nil
}

// decodeArguments defensively parses model-supplied JSON arguments. A decode
// failure yields an empty mapping so the call proceeds and fails tool-side
// validation instead of aborting the round.
func decodeArguments(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

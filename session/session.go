package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/store"
	"github.com/hupe1980/supportmesh/tool"
)

// Trace is the observable outcome of one reply: the customer-facing message,
// the tool calls made during the round and a human-readable action list.
type Trace struct {
	FinalMessage string                `json:"final_message"`
	ToolCalls    []core.ToolCallRecord `json:"tool_calls"`
	ActionsTaken []string              `json:"actions_taken"`
	Escalated    bool                  `json:"escalated"`
}

// FullTrace is the complete persisted view of a session.
type FullTrace struct {
	SessionID     string                 `json:"session_id"`
	CustomerEmail string                 `json:"customer_email"`
	Escalated     bool                   `json:"escalated"`
	Messages      []store.StoredMessage  `json:"messages"`
	ToolCalls     []store.StoredToolCall `json:"tool_calls"`
}

// Session is one customer's email conversation. Callers must serialize
// Reply invocations per session; concurrent replies on the same session are
// not coordinated here.
type Session struct {
	manager *Manager
	record  *store.Session
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.record.ID }

// Record returns the persisted session row as loaded.
func (s *Session) Record() *store.Session { return s.record }

// Reply processes one inbound customer message through the agent pipeline
// and returns the resulting trace. An already escalated session yields a nil
// trace with no error and persists nothing: the conversation belongs to the
// human team now.
func (s *Session) Reply(ctx context.Context, customerMessage string) (*Trace, error) {
	m := s.manager

	escalated, err := m.store.IsEscalated(ctx, s.record.ID)
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}
	if escalated {
		return nil, nil
	}

	// The customer message must survive even if everything after fails.
	if err := m.store.AddMessage(ctx, s.record.ID, "user", customerMessage, "customer"); err != nil {
		return nil, fmt.Errorf("reply: persist customer message: %w", err)
	}

	prior, err := s.priorHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}

	collector := core.NewCollector()
	coordinator := agent.NewCoordinator(s.buildAgents(collector), func(o *agent.CoordinatorOptions) {
		o.MaxTurns = m.cfg.MaxTurns
		o.Logger = m.logger
	})

	seed := make([]core.Message, 0, len(prior)+2)
	seed = append(seed, core.NewSystemMessage(teamPrompt))
	seed = append(seed, prior...)
	seed = append(seed, core.NewUserMessage(customerMessage))

	history, err := coordinator.Run(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}

	toolCalls := collector.Records()

	escalated, err = m.store.IsEscalated(ctx, s.record.ID)
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}
	if escalated {
		return s.escalatedTrace(ctx, toolCalls)
	}

	final := finalMessage(history)
	if err := m.store.AddMessage(ctx, s.record.ID, "assistant", final, "agent"); err != nil {
		return nil, fmt.Errorf("reply: persist assistant message: %w", err)
	}

	return &Trace{
		FinalMessage: final,
		ToolCalls:    toolCalls,
		ActionsTaken: actionsTaken(toolCalls),
	}, nil
}

// FullTrace reconstructs the complete persisted view of the session.
func (s *Session) FullTrace(ctx context.Context) (*FullTrace, error) {
	m := s.manager

	record, err := m.store.GetSession(ctx, s.record.ID)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("trace: session %s not found", s.record.ID)
	}

	messages, err := m.store.GetMessages(ctx, s.record.ID)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	toolCalls, err := m.store.GetToolCalls(ctx, s.record.ID)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	return &FullTrace{
		SessionID:     record.ID,
		CustomerEmail: record.CustomerEmail,
		Escalated:     record.Escalated,
		Messages:      messages,
		ToolCalls:     toolCalls,
	}, nil
}

// buildAgents wires the three pipeline agents with their prompts, tool
// subsets and persisting executors, all sharing one collector.
func (s *Session) buildAgents(collector *core.Collector) []core.Agent {
	m := s.manager

	build := func(name, prompt string) core.Agent {
		return agent.NewLLMAgent(name, prompt, m.gateway, func(o *agent.LLMAgentOptions) {
			o.Tools = m.definitionsFor(name)
			o.Executor = m.executorFor(s.record, name)
			o.Collector = collector
			o.Logger = m.logger
		})
	}

	return []core.Agent{
		build(RouterAgentName, routerPrompt(s.record)),
		build(PolicyAgentName, policyPrompt(s.record)),
		build(ExecutorAgentName, executorPrompt(s.record)),
	}
}

// priorHistory rebuilds earlier turns from the persisted log, excluding the
// just-added customer message which seeds the round separately.
func (s *Session) priorHistory(ctx context.Context) ([]core.Message, error) {
	rows, err := s.manager.store.GetMessages(ctx, s.record.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[:len(rows)-1]
	}

	history := make([]core.Message, 0, len(rows))
	for _, row := range rows {
		switch row.Role {
		case "user":
			history = append(history, core.Message{Role: core.RoleUser, Content: row.Content, Sender: "customer"})
		case "assistant":
			history = append(history, core.Message{Role: core.RoleAgent, Content: row.Content, Sender: "agent"})
		}
	}

	return history, nil
}

// escalatedTrace persists the canned acknowledgment and assembles the
// escalation-path trace. No agent-authored content reaches the customer on
// this path.
func (s *Session) escalatedTrace(ctx context.Context, toolCalls []core.ToolCallRecord) (*Trace, error) {
	m := s.manager

	if err := m.store.AddMessage(ctx, s.record.ID, "assistant", escalationAck, "agent"); err != nil {
		return nil, fmt.Errorf("reply: persist escalation ack: %w", err)
	}

	actions := []string{"escalated_to_human"}
	for _, tc := range toolCalls {
		if tc.Name == tool.EscalateName {
			reason, _ := tc.Arguments["reason"].(string)
			actions = append(actions, "escalate: "+reason)
		}
	}

	return &Trace{
		FinalMessage: escalationAck,
		ToolCalls:    toolCalls,
		ActionsTaken: actions,
		Escalated:    true,
	}, nil
}

// finalMessage selects the customer-facing reply from a finished round: the
// Executor's last real message, skipping tool-only placeholders. A round
// that produced nothing usable gets the generic apology rather than leaking
// an internal agent's working note.
func finalMessage(history []core.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Sender == ExecutorAgentName && msg.Content != "" && msg.Content != agent.NoTextPlaceholder {
			return msg.Content
		}
	}
	return genericApology
}

// actionsTaken renders the non-escalate tool invocations in call order as
// "<agent>/<tool>(<json args>)".
func actionsTaken(toolCalls []core.ToolCallRecord) []string {
	actions := make([]string, 0, len(toolCalls))
	for _, tc := range toolCalls {
		if tc.Name == "" || tc.Name == tool.EscalateName {
			continue
		}
		args, err := json.Marshal(tc.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		actions = append(actions, fmt.Sprintf("%s/%s(%s)", tc.Agent, tc.Name, args))
	}
	return actions
}

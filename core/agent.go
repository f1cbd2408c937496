package core

import "context"

// Agent is a role-scoped participant in the conversation pipeline.
//
// An agent receives the full ordered history visible so far in the round,
// including messages appended earlier in the same round by agents that
// already acted, and returns either one new message or nil to stay silent.
//
// Implementations must not mutate the history slice; appending is the
// coordinator's job. The interface is deliberately small so deterministic
// stub agents can stand in for LLM-backed ones in tests.
type Agent interface {
	// Name returns the agent's display name used as the Sender of its messages.
	Name() string

	// Act processes the shared history and returns at most one new message.
	// A nil message with a nil error means the agent stays silent this turn.
	Act(ctx context.Context, history []Message) (*Message, error)
}

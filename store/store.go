// Package store persists email sessions, their conversation history, tool
// call records and escalations.
package store

import (
	"context"
	"time"
)

// Session is one email conversation with a single customer.
type Session struct {
	ID                string    `json:"id"`
	CustomerEmail     string    `json:"customer_email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	ShopifyCustomerID string    `json:"shopify_customer_id"`
	Escalated         bool      `json:"escalated"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CustomerName is the customer's display name.
func (s *Session) CustomerName() string {
	return s.FirstName + " " + s.LastName
}

// StoredMessage is one persisted history entry.
type StoredMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredToolCall is one persisted tool invocation. Arguments and Result hold
// JSON text.
type StoredToolCall struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Agent     string    `json:"agent"`
	ToolName  string    `json:"tool_name"`
	Arguments string    `json:"arguments"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// Escalation is one persisted handoff to the human team.
type Escalation struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Reason    string    `json:"reason"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence boundary for the session pipeline. Lookup methods
// return nil (not an error) when the row does not exist.
type Store interface {
	CreateSession(ctx context.Context, customerEmail, firstName, lastName, shopifyCustomerID string) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListSessions(ctx context.Context) ([]Session, error)

	IsEscalated(ctx context.Context, sessionID string) (bool, error)
	MarkEscalated(ctx context.Context, sessionID string) error

	AddMessage(ctx context.Context, sessionID, role, content, sender string) error
	GetMessages(ctx context.Context, sessionID string) ([]StoredMessage, error)

	AddToolCall(ctx context.Context, sessionID, agent, toolName, arguments, result string) error
	GetToolCalls(ctx context.Context, sessionID string) ([]StoredToolCall, error)

	AddEscalation(ctx context.Context, sessionID, reason, summary string) error
	GetEscalations(ctx context.Context, sessionID string) ([]Escalation, error)

	Ping(ctx context.Context) error
	Close() error
}

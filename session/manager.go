package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/store"
	"github.com/hupe1980/supportmesh/tool"
)

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	Config Config
	Logger zerolog.Logger
}

// Manager creates and loads email sessions against a store, a model and a
// tool registry.
type Manager struct {
	store    store.Store
	gateway  *model.Gateway
	registry *tool.Registry
	cfg      Config
	logger   zerolog.Logger
}

// NewManager constructs a Manager.
func NewManager(st store.Store, llm model.Model, registry *tool.Registry, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		Config: DefaultConfig(),
		Logger: zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config.MaxTurns < 1 {
		opts.Config.MaxTurns = 1
	}
	if len(opts.Config.Toolsets) == 0 {
		opts.Config.Toolsets = DefaultToolsets()
	}

	gateway := model.NewGateway(llm, func(o *model.GatewayOptions) {
		o.MaxToolRounds = opts.Config.MaxToolRounds
		o.Logger = opts.Logger
	})

	return &Manager{
		store:    st,
		gateway:  gateway,
		registry: registry,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
}

// Start creates a new session for the given customer.
func (m *Manager) Start(ctx context.Context, customerEmail, firstName, lastName, shopifyCustomerID string) (*Session, error) {
	record, err := m.store.CreateSession(ctx, customerEmail, firstName, lastName, shopifyCustomerID)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	m.logger.Info().
		Str("session_id", record.ID).
		Str("customer_email", record.CustomerEmail).
		Msg("session.started")

	return &Session{manager: m, record: record}, nil
}

// Load retrieves an existing session, nil when unknown.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	record, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return &Session{manager: m, record: record}, nil
}

// List returns all sessions, newest first.
func (m *Manager) List(ctx context.Context) ([]store.Session, error) {
	return m.store.ListSessions(ctx)
}

// executorFor builds the tool executor closure for one agent. It intercepts
// the reserved escalate pseudo-tool before registry dispatch and persists
// every call, attributed to the acting agent.
func (m *Manager) executorFor(sess *store.Session, agentName string) model.ToolExecutor {
	return func(ctx context.Context, name string, args map[string]any) string {
		var out string
		if name == tool.EscalateName {
			out = m.escalate(ctx, sess, args)
		} else {
			out = m.registry.Execute(ctx, name, args)
		}

		argsJSON, err := json.Marshal(args)
		if err != nil {
			argsJSON = []byte("{}")
		}
		if err := m.store.AddToolCall(ctx, sess.ID, agentName, name, string(argsJSON), out); err != nil {
			m.logger.Error().Err(err).
				Str("session_id", sess.ID).
				Str("tool", name).
				Msg("session.tool_call.persist_failed")
		}

		return out
	}
}

// escalate flips the session's terminal flag and records the handoff. The
// flag only moves one way; repeated escalate calls add records but never
// unescalate.
func (m *Manager) escalate(ctx context.Context, sess *store.Session, args map[string]any) string {
	reason := stringArg(args, "reason", "Not specified")
	summary := stringArg(args, "summary_for_team", "")

	if err := m.store.MarkEscalated(ctx, sess.ID); err != nil {
		m.logger.Error().Err(err).Str("session_id", sess.ID).Msg("session.escalate.mark_failed")
		return tool.ErrorPayload("escalation could not be recorded")
	}

	summaryJSON, err := json.Marshal(map[string]any{
		"reason":           reason,
		"summary_for_team": summary,
		"customer_email":   sess.CustomerEmail,
		"customer_name":    sess.CustomerName(),
	})
	if err != nil {
		summaryJSON = []byte("{}")
	}
	if err := m.store.AddEscalation(ctx, sess.ID, reason, string(summaryJSON)); err != nil {
		m.logger.Error().Err(err).Str("session_id", sess.ID).Msg("session.escalate.record_failed")
	}

	m.logger.Info().
		Str("session_id", sess.ID).
		Str("reason", reason).
		Msg("session.escalated")

	payload, _ := json.Marshal(map[string]any{
		"success":   true,
		"escalated": true,
		"message":   "Session escalated. No further automatic replies.",
	})
	return string(payload)
}

// definitionsFor resolves an agent's configured tool names into model-facing
// definitions.
func (m *Manager) definitionsFor(agentName string) []model.ToolDefinition {
	return m.registry.Definitions(m.cfg.Toolsets[agentName]...)
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

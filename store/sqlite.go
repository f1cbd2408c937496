package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite-backed store at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode for concurrent readers alongside the writer.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS email_sessions (
		id TEXT PRIMARY KEY,
		customer_email TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		shopify_customer_id TEXT NOT NULL,
		escalated INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON email_sessions(created_at);

	CREATE TABLE IF NOT EXISTS session_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES email_sessions(id),
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		sender TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON session_messages(session_id);

	CREATE TABLE IF NOT EXISTS tool_calls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES email_sessions(id),
		agent TEXT NOT NULL,
		tool_name TEXT NOT NULL,
		arguments TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tool_calls_session ON tool_calls(session_id);

	CREATE TABLE IF NOT EXISTS escalations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES email_sessions(id),
		reason TEXT NOT NULL,
		summary TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_escalations_session ON escalations(session_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CreateSession creates a fresh session with a generated ID.
func (s *SQLiteStore) CreateSession(ctx context.Context, customerEmail, firstName, lastName, shopifyCustomerID string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:                uuid.NewString(),
		CustomerEmail:     customerEmail,
		FirstName:         firstName,
		LastName:          lastName,
		ShopifyCustomerID: shopifyCustomerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO email_sessions (id, customer_email, first_name, last_name, shopify_customer_id, escalated, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		sess.ID, sess.CustomerEmail, sess.FirstName, sess.LastName, sess.ShopifyCustomerID, now.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return sess, nil
}

// GetSession retrieves a session by ID, nil when missing.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, customer_email, first_name, last_name, shopify_customer_id, escalated, created_at, updated_at
		 FROM email_sessions WHERE id = ?`, sessionID)

	var sess Session
	var escalated int
	var createdAt, updatedAt int64

	err := row.Scan(&sess.ID, &sess.CustomerEmail, &sess.FirstName, &sess.LastName, &sess.ShopifyCustomerID, &escalated, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	sess.Escalated = escalated != 0
	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	sess.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_email, first_name, last_name, shopify_customer_id, escalated, created_at, updated_at
		 FROM email_sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var escalated int
		var createdAt, updatedAt int64
		if err := rows.Scan(&sess.ID, &sess.CustomerEmail, &sess.FirstName, &sess.LastName, &sess.ShopifyCustomerID, &escalated, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sess.Escalated = escalated != 0
		sess.CreatedAt = time.Unix(createdAt, 0).UTC()
		sess.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// IsEscalated reports whether the session has been handed to the human team.
func (s *SQLiteStore) IsEscalated(ctx context.Context, sessionID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT escalated FROM email_sessions WHERE id = ?`, sessionID)

	var escalated int
	err := row.Scan(&escalated)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("scan escalated: %w", err)
	}

	return escalated != 0, nil
}

// MarkEscalated sets the escalated flag. The flag only ever moves from 0 to
// 1, so repeated calls are harmless.
func (s *SQLiteStore) MarkEscalated(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE email_sessions SET escalated = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Unix(), sessionID)
	if err != nil {
		return fmt.Errorf("mark escalated: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}

	return nil
}

// AddMessage appends one history entry and bumps the session timestamp.
func (s *SQLiteStore) AddMessage(ctx context.Context, sessionID, role, content, sender string) error {
	now := time.Now().UTC().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session_messages (session_id, role, content, sender, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, role, content, sender, now,
	); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE email_sessions SET updated_at = ? WHERE id = ?`, now, sessionID,
	); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return tx.Commit()
}

// GetMessages returns the session history in insertion order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, sender, created_at
		 FROM session_messages WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var msg StoredMessage
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.Sender, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msg.CreatedAt = time.Unix(createdAt, 0).UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// AddToolCall records one tool invocation.
func (s *SQLiteStore) AddToolCall(ctx context.Context, sessionID, agent, toolName, arguments, result string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_calls (session_id, agent, tool_name, arguments, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, agent, toolName, arguments, result, time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert tool call: %w", err)
	}
	return nil
}

// GetToolCalls returns tool invocations for a session in call order.
func (s *SQLiteStore) GetToolCalls(ctx context.Context, sessionID string) ([]StoredToolCall, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, agent, tool_name, arguments, result, created_at
		 FROM tool_calls WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query tool calls: %w", err)
	}
	defer rows.Close()

	var calls []StoredToolCall
	for rows.Next() {
		var call StoredToolCall
		var createdAt int64
		if err := rows.Scan(&call.ID, &call.SessionID, &call.Agent, &call.ToolName, &call.Arguments, &call.Result, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tool call row: %w", err)
		}
		call.CreatedAt = time.Unix(createdAt, 0).UTC()
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tool calls: %w", err)
	}

	return calls, nil
}

// AddEscalation records one handoff to the human team.
func (s *SQLiteStore) AddEscalation(ctx context.Context, sessionID, reason, summary string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO escalations (session_id, reason, summary, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, reason, summary, time.Now().UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert escalation: %w", err)
	}
	return nil
}

// GetEscalations returns escalations for a session in insertion order.
func (s *SQLiteStore) GetEscalations(ctx context.Context, sessionID string) ([]Escalation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, reason, summary, created_at
		 FROM escalations WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query escalations: %w", err)
	}
	defer rows.Close()

	var escalations []Escalation
	for rows.Next() {
		var esc Escalation
		var createdAt int64
		if err := rows.Scan(&esc.ID, &esc.SessionID, &esc.Reason, &esc.Summary, &createdAt); err != nil {
			return nil, fmt.Errorf("scan escalation row: %w", err)
		}
		esc.CreatedAt = time.Unix(createdAt, 0).UTC()
		escalations = append(escalations, esc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate escalations: %w", err)
	}

	return escalations, nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

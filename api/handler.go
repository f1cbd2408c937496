// Package api exposes the email support pipeline over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/session"
	"github.com/hupe1980/supportmesh/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	manager *session.Manager
	store   store.Store
}

// NewHandler creates a Handler.
func NewHandler(manager *session.Manager, st store.Store) *Handler {
	return &Handler{manager: manager, store: st}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// Health reports service and store health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	h.JSON(w, code, map[string]string{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type startSessionRequest struct {
	CustomerEmail     string `json:"customer_email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	ShopifyCustomerID string `json:"shopify_customer_id"`
}

// StartSession creates a new email session for a customer.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		h.Error(w, http.StatusBadRequest, "customer_email is required")
		return
	}

	sess, err := h.manager.Start(r.Context(), req.CustomerEmail, req.FirstName, req.LastName, req.ShopifyCustomerID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	h.JSON(w, http.StatusCreated, sess.Record())
}

// ListConversations returns all sessions, newest first.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.manager.List(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	h.JSON(w, http.StatusOK, sessions)
}

type replyRequest struct {
	Message string `json:"message"`
}

type replyResponse struct {
	SessionID    string                `json:"session_id"`
	Escalated    bool                  `json:"escalated"`
	FinalMessage *string               `json:"final_message"`
	ToolCalls    []core.ToolCallRecord `json:"tool_calls"`
	ActionsTaken []string              `json:"actions_taken"`
}

// Reply submits a customer message to a session and returns the trace.
// final_message is null when the session is escalated and produces no
// automatic reply.
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	sess, err := h.manager.Load(r.Context(), sessionID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		h.Error(w, http.StatusNotFound, "session not found")
		return
	}

	trace, err := sess.Reply(r.Context(), req.Message)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to process reply")
		return
	}

	resp := replyResponse{
		SessionID:    sessionID,
		ToolCalls:    []core.ToolCallRecord{},
		ActionsTaken: []string{},
	}
	if trace == nil {
		// Already escalated: no automatic reply.
		resp.Escalated = true
	} else {
		resp.Escalated = trace.Escalated
		resp.FinalMessage = &trace.FinalMessage
		if trace.ToolCalls != nil {
			resp.ToolCalls = trace.ToolCalls
		}
		if trace.ActionsTaken != nil {
			resp.ActionsTaken = trace.ActionsTaken
		}
	}

	h.JSON(w, http.StatusOK, resp)
}

// Trace returns the full persisted trace for a session.
func (h *Handler) Trace(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.manager.Load(r.Context(), sessionID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		h.Error(w, http.StatusNotFound, "session not found")
		return
	}

	trace, err := sess.FullTrace(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load trace")
		return
	}
	if trace.Messages == nil {
		trace.Messages = []store.StoredMessage{}
	}
	if trace.ToolCalls == nil {
		trace.ToolCalls = []store.StoredToolCall{}
	}

	h.JSON(w, http.StatusOK, trace)
}

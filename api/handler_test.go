package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/session"
	"github.com/hupe1980/supportmesh/store"
	"github.com/hupe1980/supportmesh/tool"
)

func newTestServer(t *testing.T, llm model.Model) (*httptest.Server, store.Store) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	manager := session.NewManager(st, llm, tool.NewRegistry())
	srv := httptest.NewServer(NewRouter(zerolog.Nop(), manager, st))
	t.Cleanup(srv.Close)

	return srv, st
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, model.NewScriptedModel())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestStartSession(t *testing.T) {
	srv, _ := newTestServer(t, model.NewScriptedModel())

	resp := postJSON(t, srv.URL+"/sessions", map[string]string{
		"customer_email":      "jane@example.com",
		"first_name":          "Jane",
		"last_name":           "Doe",
		"shopify_customer_id": "gid://shopify/Customer/1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var sess store.Session
	decodeBody(t, resp, &sess)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "jane@example.com", sess.CustomerEmail)
	assert.False(t, sess.Escalated)
}

func TestStartSession_RequiresEmail(t *testing.T) {
	srv, _ := newTestServer(t, model.NewScriptedModel())

	resp := postJSON(t, srv.URL+"/sessions", map[string]string{"first_name": "Jane"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReply_UnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(t, model.NewScriptedModel())

	resp := postJSON(t, srv.URL+"/conversations/unknown-id", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTrace_UnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(t, model.NewScriptedModel())

	resp, err := http.Get(srv.URL + "/conversations/unknown-id")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReplyAndTrace(t *testing.T) {
	llm := model.NewScriptedModel(
		&model.Response{Content: "GREETING"},
		&model.Response{Content: "PROCEED"},
		&model.Response{Content: "Hi Jane, how can we help?"},
	)
	srv, st := newTestServer(t, llm)

	sess, err := st.CreateSession(context.Background(), "jane@example.com", "Jane", "Doe", "c1")
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/conversations/"+sess.ID, map[string]string{"message": "Hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply struct {
		SessionID    string   `json:"session_id"`
		Escalated    bool     `json:"escalated"`
		FinalMessage *string  `json:"final_message"`
		ActionsTaken []string `json:"actions_taken"`
	}
	decodeBody(t, resp, &reply)

	assert.Equal(t, sess.ID, reply.SessionID)
	assert.False(t, reply.Escalated)
	require.NotNil(t, reply.FinalMessage)
	assert.Contains(t, *reply.FinalMessage, "how can we help")

	traceResp, err := http.Get(srv.URL + "/conversations/" + sess.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, traceResp.StatusCode)

	var trace session.FullTrace
	decodeBody(t, traceResp, &trace)
	assert.Equal(t, sess.ID, trace.SessionID)
	require.Len(t, trace.Messages, 2)
	assert.Equal(t, "user", trace.Messages[0].Role)
	assert.Equal(t, "assistant", trace.Messages[1].Role)
}

func TestReply_EscalatedSessionReturnsNullMessage(t *testing.T) {
	srv, st := newTestServer(t, model.NewScriptedModel())

	sess, err := st.CreateSession(context.Background(), "jane@example.com", "Jane", "Doe", "c1")
	require.NoError(t, err)
	require.NoError(t, st.MarkEscalated(context.Background(), sess.ID))

	resp := postJSON(t, srv.URL+"/conversations/"+sess.ID, map[string]string{"message": "hello?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply struct {
		Escalated    bool    `json:"escalated"`
		FinalMessage *string `json:"final_message"`
	}
	decodeBody(t, resp, &reply)
	assert.True(t, reply.Escalated)
	assert.Nil(t, reply.FinalMessage)
}

func TestListConversations(t *testing.T) {
	srv, st := newTestServer(t, model.NewScriptedModel())

	_, err := st.CreateSession(context.Background(), "a@example.com", "A", "One", "c1")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/conversations")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessions []store.Session
	decodeBody(t, resp, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, "a@example.com", sessions[0].CustomerEmail)
}

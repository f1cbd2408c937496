package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"status": "in transit"}})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	out := c.PostJSON(context.Background(), "/shopify/get_order_details", map[string]any{"orderId": "#1234"})

	assert.Equal(t, "/shopify/get_order_details", gotPath)
	assert.Equal(t, "#1234", gotBody["orderId"])
	assert.Equal(t, true, out["success"])
}

func TestClient_PostJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"upstream broken"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	out := c.PostJSON(context.Background(), "/x", map[string]any{})

	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "502")
}

func TestClient_PostJSON_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	out := c.PostJSON(context.Background(), "/x", map[string]any{})

	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "invalid JSON")
}

func TestClient_PostJSON_MissingContractKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	out := c.PostJSON(context.Background(), "/x", map[string]any{})

	assert.Equal(t, false, out["success"])
}

func TestClient_PostJSON_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	out := c.PostJSON(context.Background(), "/x", map[string]any{})

	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "network error")
}

func TestClient_PostJSON_UnconfiguredBaseURL(t *testing.T) {
	c := NewClient(ClientConfig{})
	out := c.PostJSON(context.Background(), "/x", map[string]any{})

	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "not configured")
}

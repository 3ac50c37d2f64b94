package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabshell/tabshell/backend/internal/infrastructure/config"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	srv := New(cfg, logging.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

func TestFullStackHealth(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBothProvidersRegistered(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/services", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	services := body["services"].([]interface{})
	require.Len(t, services, 2)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Generate one request so counters exist.
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "backend_http_requests_total"))
}

func TestSpawnThroughExecute(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"tool_id":"terminal.spawn","params":{"workspace_path":"` + t.TempDir() + `","command":"/bin/true"}}`
	req := httptest.NewRequest(http.MethodPost, "/services/execute", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Contains(t, data["id"], "sess_")
}

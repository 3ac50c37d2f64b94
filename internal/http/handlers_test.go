package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabshell/tabshell/backend/internal/events"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/config"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/providers/filesystem"
	"github.com/tabshell/tabshell/backend/internal/providers/terminal"
	"github.com/tabshell/tabshell/backend/internal/service"
	"github.com/tabshell/tabshell/backend/internal/shared/id"
)

func newTestRouter(t *testing.T) (*gin.Engine, *terminal.Controller) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default().Terminal
	bus := events.NewBus(cfg.EventBuffer, logging.NewNop(), nil)
	ctrl := terminal.NewController(cfg, terminal.NewRegistry(), bus, logging.NewNop(), nil)
	t.Cleanup(func() { ctrl.Shutdown(5 * time.Second) })

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(terminal.NewProvider(ctrl)))
	require.NoError(t, registry.Register(filesystem.NewProvider(logging.NewNop())))

	handlers := NewHandlers(registry, ctrl, bus)

	router := gin.New()
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)
	router.POST("/sessions", handlers.SpawnSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.DELETE("/sessions/:id", handlers.KillSession)
	return router, ctrl
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestRootAndHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])

	w, body = doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(0), body["sessions_active"])
}

func TestListServices(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/services", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	services := body["services"].([]interface{})
	assert.Len(t, services, 2)

	w, body = doJSON(t, router, http.MethodGet, "/services?category=terminal", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	services = body["services"].([]interface{})
	require.Len(t, services, 1)
}

func TestDiscoverServices(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/services/discover", map[string]string{"query": "terminal tab"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["services"])

	w, _ = doJSON(t, router, http.MethodPost, "/services/discover", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExecuteFilesystemTool(t *testing.T) {
	router, _ := newTestRouter(t)
	dir := t.TempDir()

	w, body := doJSON(t, router, http.MethodPost, "/services/execute", map[string]interface{}{
		"tool_id": "filesystem.dir.list",
		"params":  map[string]interface{}{"path": dir},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestExecuteRejectsBadToolID(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/services/execute", map[string]interface{}{
		"tool_id": "nosuchservice.op",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycleOverREST(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/sessions", map[string]interface{}{
		"workspace_path": t.TempDir(),
		"command":        "/bin/cat",
	})
	require.Equal(t, http.StatusOK, w.Code)
	session := body["session"].(map[string]interface{})
	sid := session["id"].(string)
	assert.Contains(t, sid, "sess_")

	w, body = doJSON(t, router, http.MethodGet, "/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, body = doJSON(t, router, http.MethodGet, "/sessions/"+sid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	session = body["session"].(map[string]interface{})
	assert.Equal(t, "/bin/cat", session["command"])

	w, body = doJSON(t, router, http.MethodDelete, "/sessions/"+sid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestGetUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/sessions/"+id.NewSessionID().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKillUnknownSessionSucceeds(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodDelete, "/sessions/"+id.NewSessionID().String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

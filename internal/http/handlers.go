package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tabshell/tabshell/backend/internal/api/middleware"
	"github.com/tabshell/tabshell/backend/internal/events"
	"github.com/tabshell/tabshell/backend/internal/providers/terminal"
	"github.com/tabshell/tabshell/backend/internal/service"
	"github.com/tabshell/tabshell/backend/internal/shared/id"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry  *service.Registry
	ctrl      *terminal.Controller
	bus       *events.Bus
	startedAt time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, ctrl *terminal.Controller, bus *events.Bus) *Handlers {
	return &Handlers{
		registry:  registry,
		ctrl:      ctrl,
		bus:       bus,
		startedAt: time.Now(),
	}
}

// Root handles the banner endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "tabshell-backend",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"uptime_seconds":   int(time.Since(h.startedAt).Seconds()),
		"sessions_active":  len(h.ctrl.List()),
		"subscribers":      h.bus.SubscriberCount(),
		"service_registry": h.registry.Stats(),
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices finds services relevant to a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"services": h.registry.Discover(req.Query, 5),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rid := middleware.GetRequestID(c)
	appCtx := &types.Context{
		WorkspaceID: req.WorkspaceID,
	}
	if rid != "" {
		appCtx.RequestID = &rid
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		status := http.StatusInternalServerError
		if result != nil && result.Error != nil {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SpawnSession starts a terminal session for a workspace tab
func (h *Handlers) SpawnSession(c *gin.Context) {
	var req types.SpawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.ctrl.Spawn(req.WorkspacePath, req.Command, req.Rows, req.Cols)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": info})
}

// ListSessions lists live terminal sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.ctrl.List()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session's state
func (h *Handlers) GetSession(c *gin.Context) {
	sid := id.SessionID(c.Param("id"))

	info, err := h.ctrl.Get(sid)
	if err != nil {
		if errors.Is(err, terminal.ErrUnknownSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": info})
}

// KillSession terminates a session. Killing an already-gone session still
// reports success so the front end can close tabs without races.
func (h *Handlers) KillSession(c *gin.Context) {
	sid := id.SessionID(c.Param("id"))

	if err := h.ctrl.Kill(sid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sid.String(),
	})
}

package terminal

import (
	"context"
	"fmt"

	"github.com/tabshell/tabshell/backend/internal/shared/id"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// Provider exposes the controller through the service tool surface.
type Provider struct {
	controller *Controller
}

// NewProvider wraps a controller.
func NewProvider(controller *Controller) *Provider {
	return &Provider{controller: controller}
}

// Controller returns the underlying controller, used by the WebSocket layer.
func (p *Provider) Controller() *Controller {
	return p.controller
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "PTY-backed terminal sessions for workspace tabs",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"sessions",
			"resize",
			"streaming",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to the appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.spawn":
		return p.spawn(params)
	case "terminal.write":
		return p.write(params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.kill":
		return p.kill(params)
	case "terminal.list":
		return p.list()
	case "terminal.get":
		return p.get(params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.spawn",
			Name:        "Spawn Session",
			Description: "Spawn a terminal session attached to a workspace directory",
			Parameters: []types.Parameter{
				{Name: "workspace_path", Type: "string", Description: "Working directory for the child process", Required: true},
				{Name: "command", Type: "string", Description: "Command line to run. Defaults to the user's shell", Required: false},
				{Name: "rows", Type: "number", Description: "Terminal height in rows. Defaults to 24", Required: false},
				{Name: "cols", Type: "number", Description: "Terminal width in columns. Defaults to 80", Required: false},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Session",
			Description: "Send input bytes to a session's PTY",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
				{Name: "data", Type: "string", Description: "Bytes to forward to the child's stdin", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Session",
			Description: "Change a session's terminal dimensions",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
				{Name: "rows", Type: "number", Description: "New height in rows", Required: true},
				{Name: "cols", Type: "number", Description: "New width in columns", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Session",
			Description: "Terminate a session. Always succeeds, including on unknown ids",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.list",
			Name:        "List Sessions",
			Description: "List all registered sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get",
			Name:        "Get Session",
			Description: "Get information about a session",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
			},
			Returns: "session_info",
		},
	}
}

func infoData(info Info) map[string]interface{} {
	return map[string]interface{}{
		"id":             info.ID.String(),
		"workspace_path": info.WorkspacePath,
		"command":        info.Command,
		"rows":           info.Rows,
		"cols":           info.Cols,
		"started_at":     info.StartedAt,
		"state":          string(info.State),
	}
}

func (p *Provider) spawn(params map[string]interface{}) (*types.Result, error) {
	workspacePath, ok := params["workspace_path"].(string)
	if !ok || workspacePath == "" {
		return types.Failure("workspace_path is required")
	}

	command, _ := params["command"].(string)

	rows := 0
	if r, ok := params["rows"].(float64); ok {
		rows = int(r)
	}
	cols := 0
	if c, ok := params["cols"].(float64); ok {
		cols = int(c)
	}

	info, err := p.controller.Spawn(workspacePath, command, rows, cols)
	if err != nil {
		return types.Failure(err.Error())
	}

	return types.Success(infoData(info))
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return types.Failure("session_id is required")
	}
	data, ok := params["data"].(string)
	if !ok {
		return types.Failure("data is required")
	}

	if err := p.controller.Write(id.SessionID(sessionID), []byte(data)); err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{"success": true})
}

func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return types.Failure("session_id is required")
	}
	rows, ok := params["rows"].(float64)
	if !ok {
		return types.Failure("rows is required")
	}
	cols, ok := params["cols"].(float64)
	if !ok {
		return types.Failure("cols is required")
	}

	if err := p.controller.Resize(id.SessionID(sessionID), int(rows), int(cols)); err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{"success": true})
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return types.Failure("session_id is required")
	}

	// Kill is idempotent and swallows unknown ids
	p.controller.Kill(id.SessionID(sessionID))
	return types.Success(map[string]interface{}{"success": true})
}

func (p *Provider) list() (*types.Result, error) {
	infos := p.controller.List()
	sessions := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		sessions = append(sessions, infoData(info))
	}
	return types.Success(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (p *Provider) get(params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok {
		return types.Failure("session_id is required")
	}

	info, err := p.controller.Get(id.SessionID(sessionID))
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(infoData(info))
}

package types

// ExecuteRequest is the body of POST /services/execute.
type ExecuteRequest struct {
	ToolID      string                 `json:"tool_id" binding:"required"`
	Params      map[string]interface{} `json:"params"`
	WorkspaceID *string                `json:"workspace_id,omitempty"`
}

// DiscoverRequest is the body of POST /services/discover.
type DiscoverRequest struct {
	Query string `json:"query" binding:"required"`
}

// SpawnRequest is the body of POST /sessions.
type SpawnRequest struct {
	WorkspacePath string `json:"workspace_path"`
	Command       string `json:"command"`
	Rows          int    `json:"rows"`
	Cols          int    `json:"cols"`
}

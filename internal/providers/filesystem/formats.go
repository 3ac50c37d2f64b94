package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// sonicThreshold switches JSON parsing to sonic above this size.
const sonicThreshold = 10 * 1024

// JSONRead parses a JSON file for structured preview in the editor.
func (p *Provider) JSONRead(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("read failed: %v", err))
	}

	var parsed interface{}
	if len(data) > sonicThreshold {
		err = sonic.Unmarshal(data, &parsed)
	} else {
		err = json.Unmarshal(data, &parsed)
	}
	if err != nil {
		return types.Failure(fmt.Sprintf("invalid JSON: %v", err))
	}

	return types.Success(map[string]interface{}{"path": path, "data": parsed})
}

// JSONWrite writes a value as pretty-printed JSON.
func (p *Provider) JSONWrite(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}
	data, ok := params["data"]
	if !ok {
		return types.Failure("data parameter required")
	}

	encoded, err := sonic.MarshalIndent(data, "", "  ")
	if err != nil {
		return types.Failure(fmt.Sprintf("JSON serialization failed: %v", err))
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return types.Failure(fmt.Sprintf("write failed: %v", err))
	}

	return types.Success(map[string]interface{}{"written": true, "path": path, "size": len(encoded)})
}

// YAMLRead parses a YAML file.
func (p *Provider) YAMLRead(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("read failed: %v", err))
	}

	var parsed interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return types.Failure(fmt.Sprintf("invalid YAML: %v", err))
	}

	return types.Success(map[string]interface{}{"path": path, "data": parsed})
}

// YAMLWrite writes a value as YAML.
func (p *Provider) YAMLWrite(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}
	data, ok := params["data"]
	if !ok {
		return types.Failure("data parameter required")
	}

	encoded, err := yaml.Marshal(data)
	if err != nil {
		return types.Failure(fmt.Sprintf("YAML serialization failed: %v", err))
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return types.Failure(fmt.Sprintf("write failed: %v", err))
	}

	return types.Success(map[string]interface{}{"written": true, "path": path, "size": len(encoded)})
}

// TOMLRead parses a TOML file.
func (p *Provider) TOMLRead(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("read failed: %v", err))
	}

	var parsed interface{}
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return types.Failure(fmt.Sprintf("invalid TOML: %v", err))
	}

	return types.Success(map[string]interface{}{"path": path, "data": parsed})
}

// TOMLWrite writes a value as TOML.
func (p *Provider) TOMLWrite(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}
	data, ok := params["data"]
	if !ok {
		return types.Failure("data parameter required")
	}

	encoded, err := toml.Marshal(data)
	if err != nil {
		return types.Failure(fmt.Sprintf("TOML serialization failed: %v", err))
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return types.Failure(fmt.Sprintf("write failed: %v", err))
	}

	return types.Success(map[string]interface{}{"written": true, "path": path, "size": len(encoded)})
}

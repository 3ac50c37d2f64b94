package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// Read reads a whole file as text for the editor, with a language tag and
// MIME detection so the front end can refuse binaries.
func (p *Provider) Read(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("stat failed: %v", err))
	}
	if info.IsDir() {
		return types.Failure(fmt.Sprintf("path is a directory: %s", path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("read failed: %v", err))
	}

	mtype := mimetype.Detect(data)
	binary := !isTextMIME(mtype)

	return types.Success(map[string]interface{}{
		"path":     path,
		"content":  string(data),
		"size":     len(data),
		"language": DetectLanguage(path),
		"mime":     mtype.String(),
		"binary":   binary,
	})
}

// Write overwrites a file, creating parent directories as needed.
func (p *Provider) Write(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}
	data, ok := params["data"].(string)
	if !ok {
		return types.Failure("data parameter required")
	}

	if parent := filepath.Dir(path); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return types.Failure(fmt.Sprintf("create parent directories: %v", err))
		}
	}

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return types.Failure(fmt.Sprintf("write failed: %v", err))
	}

	return types.Success(map[string]interface{}{
		"written": true,
		"path":    path,
		"size":    len(data),
	})
}

// Create creates a new empty file.
func (p *Provider) Create(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return types.Failure(fmt.Sprintf("create failed: %v", err))
	}
	f.Close()

	return types.Success(map[string]interface{}{"created": true, "path": path})
}

// Delete deletes a file or empty directory.
func (p *Provider) Delete(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	if err := os.Remove(path); err != nil {
		return types.Failure(fmt.Sprintf("delete failed: %v", err))
	}
	return types.Success(map[string]interface{}{"deleted": true, "path": path})
}

// Exists checks whether a path exists.
func (p *Provider) Exists(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	_, err := os.Stat(path)
	return types.Success(map[string]interface{}{
		"exists": err == nil,
		"path":   path,
	})
}

// Stat returns file metadata including MIME type.
func (p *Provider) Stat(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("stat failed: %v", err))
	}

	data := map[string]interface{}{
		"path":     path,
		"name":     info.Name(),
		"size":     info.Size(),
		"is_dir":   info.IsDir(),
		"mode":     info.Mode().String(),
		"modified": info.ModTime(),
	}
	if !info.IsDir() {
		if mtype, err := mimetype.DetectFile(path); err == nil {
			data["mime"] = mtype.String()
			data["binary"] = !isTextMIME(mtype)
		}
	}
	return types.Success(data)
}

// isTextMIME walks the MIME hierarchy looking for a text ancestor.
func isTextMIME(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// ListDir lists a directory for the folder browser: directories first, then
// files, both case-insensitively sorted. Well-known noise entries are
// skipped.
func (p *Provider) ListDir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("directory does not exist: %s", path))
	}
	if !info.IsDir() {
		return types.Failure(fmt.Sprintf("path is not a directory: %s", path))
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return types.Failure(fmt.Sprintf("read directory: %v", err))
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if skipNames[name] {
			continue
		}
		entry := Entry{
			Name:     name,
			Path:     filepath.Join(path, name),
			IsDir:    de.IsDir(),
			IsHidden: strings.HasPrefix(name, "."),
		}
		if fi, err := de.Info(); err == nil {
			entry.Size = fi.Size()
			entry.Modified = fi.ModTime()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return types.Success(map[string]interface{}{
		"path":    path,
		"entries": entries,
		"count":   len(entries),
	})
}

// CreateDir creates a directory recursively.
func (p *Provider) CreateDir(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return types.Failure(fmt.Sprintf("create directory: %v", err))
	}
	return types.Success(map[string]interface{}{"created": true, "path": path})
}

// Walk returns every file under a directory as a flat list, using fastwalk
// for concurrent traversal. Skipped names are pruned.
func (p *Provider) Walk(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	path, ok := params["path"].(string)
	if !ok || path == "" {
		return types.Failure("path parameter required")
	}

	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if skipNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		mu.Lock()
		files = append(files, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("walk failed: %v", err))
	}

	sort.Strings(files)
	return types.Success(map[string]interface{}{
		"path":  path,
		"files": files,
		"count": len(files),
	})
}

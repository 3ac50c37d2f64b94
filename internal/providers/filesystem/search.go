package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// maxSearchFileSize bounds per-file reads during content search.
const maxSearchFileSize = 4 * 1024 * 1024

// Glob matches files under a root with a doublestar pattern
// (e.g. "**/*.go").
func (p *Provider) Glob(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	root, ok := params["path"].(string)
	if !ok || root == "" {
		return types.Failure("path parameter required")
	}
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return types.Failure("pattern parameter required")
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
	if err != nil {
		return types.Failure(fmt.Sprintf("glob failed: %v", err))
	}

	sort.Strings(matches)
	return types.Success(map[string]interface{}{
		"pattern": pattern,
		"matches": matches,
		"count":   len(matches),
	})
}

// SearchContent finds files containing a literal query string. Binary-ish
// and oversized files are skipped.
func (p *Provider) SearchContent(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	root, ok := params["path"].(string)
	if !ok || root == "" {
		return types.Failure("path parameter required")
	}
	query, ok := params["query"].(string)
	if !ok || query == "" {
		return types.Failure("query parameter required")
	}

	needle := []byte(query)
	var (
		mu      sync.Mutex
		matches []map[string]interface{}
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxSearchFileSize {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil || bytes.IndexByte(data, 0) >= 0 {
			return nil
		}
		if idx := bytes.Index(data, needle); idx >= 0 {
			line := 1 + bytes.Count(data[:idx], []byte{'\n'})
			mu.Lock()
			matches = append(matches, map[string]interface{}{
				"path": path,
				"line": line,
			})
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("search failed: %v", err))
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i]["path"].(string) < matches[j]["path"].(string)
	})
	return types.Success(map[string]interface{}{
		"query":   query,
		"matches": matches,
		"count":   len(matches),
	})
}

// FindByName finds files whose name contains the query, case-insensitive.
func (p *Provider) FindByName(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	root, ok := params["path"].(string)
	if !ok || root == "" {
		return types.Failure("path parameter required")
	}
	query, ok := params["query"].(string)
	if !ok || query == "" {
		return types.Failure("query parameter required")
	}

	needle := strings.ToLower(query)
	var (
		mu      sync.Mutex
		matches []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && skipNames[d.Name()] {
			return filepath.SkipDir
		}
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			mu.Lock()
			matches = append(matches, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("find failed: %v", err))
	}

	sort.Strings(matches)
	return types.Success(map[string]interface{}{
		"query":   query,
		"matches": matches,
		"count":   len(matches),
	})
}

package filesystem

import (
	"context"
	"fmt"

	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/shared/types"
)

// Provider implements the filesystem collaborator consumed by the folder
// browser and the editor. All operations are synchronous local I/O.
type Provider struct {
	log *logging.Logger
}

// NewProvider creates a filesystem provider.
func NewProvider(log *logging.Logger) *Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{log: log}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "filesystem",
		Name:        "Filesystem Service",
		Description: "Directory listing, file read/write, search, formats, and archives for workspaces",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"read",
			"write",
			"list",
			"search",
			"formats",
			"archives",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to the appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "filesystem.read":
		return p.Read(ctx, params, appCtx)
	case "filesystem.write":
		return p.Write(ctx, params, appCtx)
	case "filesystem.create":
		return p.Create(ctx, params, appCtx)
	case "filesystem.delete":
		return p.Delete(ctx, params, appCtx)
	case "filesystem.exists":
		return p.Exists(ctx, params, appCtx)
	case "filesystem.stat":
		return p.Stat(ctx, params, appCtx)
	case "filesystem.dir.list":
		return p.ListDir(ctx, params, appCtx)
	case "filesystem.dir.create":
		return p.CreateDir(ctx, params, appCtx)
	case "filesystem.dir.walk":
		return p.Walk(ctx, params, appCtx)
	case "filesystem.search.glob":
		return p.Glob(ctx, params, appCtx)
	case "filesystem.search.content":
		return p.SearchContent(ctx, params, appCtx)
	case "filesystem.search.name":
		return p.FindByName(ctx, params, appCtx)
	case "filesystem.json.read":
		return p.JSONRead(ctx, params, appCtx)
	case "filesystem.json.write":
		return p.JSONWrite(ctx, params, appCtx)
	case "filesystem.yaml.read":
		return p.YAMLRead(ctx, params, appCtx)
	case "filesystem.yaml.write":
		return p.YAMLWrite(ctx, params, appCtx)
	case "filesystem.toml.read":
		return p.TOMLRead(ctx, params, appCtx)
	case "filesystem.toml.write":
		return p.TOMLWrite(ctx, params, appCtx)
	case "filesystem.zip.create":
		return p.ZipCreate(ctx, params, appCtx)
	case "filesystem.zip.extract":
		return p.ZipExtract(ctx, params, appCtx)
	case "filesystem.targz.create":
		return p.TarGzCreate(ctx, params, appCtx)
	case "filesystem.targz.extract":
		return p.TarGzExtract(ctx, params, appCtx)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) getTools() []types.Tool {
	pathParam := types.Parameter{Name: "path", Type: "string", Description: "File or directory path", Required: true}

	return []types.Tool{
		{
			ID:          "filesystem.read",
			Name:        "Read File",
			Description: "Read a file as text with editor language tag and MIME detection",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "file_content",
		},
		{
			ID:          "filesystem.write",
			Name:        "Write File",
			Description: "Overwrite a file, creating parent directories",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "data", Type: "string", Description: "File contents", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.create",
			Name:        "Create File",
			Description: "Create a new empty file",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "success",
		},
		{
			ID:          "filesystem.delete",
			Name:        "Delete File",
			Description: "Delete a file or empty directory",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "success",
		},
		{
			ID:          "filesystem.exists",
			Name:        "Check Existence",
			Description: "Check if a path exists",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "boolean",
		},
		{
			ID:          "filesystem.stat",
			Name:        "Stat",
			Description: "File metadata including MIME type",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "file_info",
		},
		{
			ID:          "filesystem.dir.list",
			Name:        "List Directory",
			Description: "List a directory for the folder browser, directories first",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "entries",
		},
		{
			ID:          "filesystem.dir.create",
			Name:        "Create Directory",
			Description: "Create a directory recursively",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "success",
		},
		{
			ID:          "filesystem.dir.walk",
			Name:        "Walk Directory",
			Description: "List every file under a directory recursively",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "files",
		},
		{
			ID:          "filesystem.search.glob",
			Name:        "Glob Search",
			Description: "Match files with a ** glob pattern",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "pattern", Type: "string", Description: "Glob pattern, e.g. **/*.go", Required: true},
			},
			Returns: "matches",
		},
		{
			ID:          "filesystem.search.content",
			Name:        "Content Search",
			Description: "Find text files containing a literal string",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "query", Type: "string", Description: "Literal text to find", Required: true},
			},
			Returns: "matches",
		},
		{
			ID:          "filesystem.search.name",
			Name:        "Name Search",
			Description: "Find entries whose name contains a string",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "query", Type: "string", Description: "Name fragment", Required: true},
			},
			Returns: "matches",
		},
		{
			ID:          "filesystem.json.read",
			Name:        "Read JSON",
			Description: "Parse a JSON file",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "filesystem.json.write",
			Name:        "Write JSON",
			Description: "Write a value as pretty JSON",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "data", Type: "object", Description: "Value to serialize", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.yaml.read",
			Name:        "Read YAML",
			Description: "Parse a YAML file",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "filesystem.yaml.write",
			Name:        "Write YAML",
			Description: "Write a value as YAML",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "data", Type: "object", Description: "Value to serialize", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.toml.read",
			Name:        "Read TOML",
			Description: "Parse a TOML file",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "filesystem.toml.write",
			Name:        "Write TOML",
			Description: "Write a value as TOML",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "data", Type: "object", Description: "Value to serialize", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.zip.create",
			Name:        "Create ZIP",
			Description: "Archive a directory as ZIP",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Directory to archive", Required: true},
				{Name: "output", Type: "string", Description: "Archive path", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.zip.extract",
			Name:        "Extract ZIP",
			Description: "Extract a ZIP archive",
			Parameters: []types.Parameter{
				{Name: "archive", Type: "string", Description: "Archive path", Required: true},
				{Name: "dest", Type: "string", Description: "Destination directory", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.targz.create",
			Name:        "Create tar.gz",
			Description: "Archive a directory as tar.gz",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Directory to archive", Required: true},
				{Name: "output", Type: "string", Description: "Archive path", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "filesystem.targz.extract",
			Name:        "Extract tar.gz",
			Description: "Extract a tar.gz archive",
			Parameters: []types.Parameter{
				{Name: "archive", Type: "string", Description: "Archive path", Required: true},
				{Name: "dest", Type: "string", Description: "Destination directory", Required: true},
			},
			Returns: "success",
		},
	}
}

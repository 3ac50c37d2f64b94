package filesystem

import (
	"path/filepath"
	"strings"
)

// languageByExtension maps file extensions to the language tag the editor
// component consumes.
var languageByExtension = map[string]string{
	".go":    "go",
	".rs":    "rust",
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".py":    "python",
	".rb":    "ruby",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".sh":    "shell",
	".bash":  "shell",
	".zsh":   "shell",
	".fish":  "shell",
	".html":  "html",
	".htm":   "html",
	".css":   "css",
	".scss":  "scss",
	".less":  "less",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
	".md":    "markdown",
	".sql":   "sql",
	".lua":   "lua",
	".vim":   "vim",
	".zig":   "zig",
	".proto": "protobuf",
	".tf":    "hcl",
	".ini":   "ini",
	".conf":  "ini",
}

// specialFilenames covers files identified by name rather than extension.
var specialFilenames = map[string]string{
	"dockerfile":  "dockerfile",
	"makefile":    "makefile",
	"gnumakefile": "makefile",
	"rakefile":    "ruby",
	"gemfile":     "ruby",
	"go.mod":      "go.mod",
	"go.sum":      "go.sum",
}

// DetectLanguage returns the editor language tag for a path, or "plaintext"
// when nothing matches.
func DetectLanguage(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if lang, ok := specialFilenames[base]; ok {
		return lang
	}
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}

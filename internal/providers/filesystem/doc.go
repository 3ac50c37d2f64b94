// Package filesystem provides the synchronous file operations the workspace
// shell consumes: directory listings for the folder browser, whole-file
// read/write with language tags for the editor, name/glob/content search,
// structured format parsing, and workspace archive export/import.
//
// All operations run on the caller's goroutine against the local
// filesystem and return structured errors on missing paths or permission
// denial. There is no file watching here.
package filesystem

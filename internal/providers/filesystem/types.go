package filesystem

import "time"

// Entry represents one directory listing row.
type Entry struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	IsDir    bool      `json:"is_dir"`
	IsHidden bool      `json:"is_hidden"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// skipNames are entries the folder browser never shows.
var skipNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	"target":       true,
	".DS_Store":    true,
}

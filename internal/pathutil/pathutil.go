package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHomePath replaces a leading "~" with the current user's home
// directory. Paths that cannot be expanded are returned unchanged.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

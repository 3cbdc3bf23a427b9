package file

import (
	"path/filepath"
	"strings"
)

// AppendSuffix returns the path of a sibling file named after path's base
// name with suffix appended, e.g. "a/b.mp4" + ".md" -> "a/b.mp4.md".
func AppendSuffix(path, suffix string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}

	return filepath.Join(dir, filename+suffix)
}

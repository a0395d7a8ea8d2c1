package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// HasExtension reports whether name ends with ext, ignoring case
func HasExtension(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}

// SafeFilename reduces a server-suggested name to a plain file name so it
// cannot escape the output directory
func SafeFilename(name, fallback string) string {
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if name == "/" || name == "." || name == ".." || name == "" {
		return fallback
	}
	return name
}

// FormatFileSize formats file size in human readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// FileExists checks if a file exists
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// RemoveIfExists deletes a file, treating a missing file as success
func RemoveIfExists(filePath string) error {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
// It replaces spaces and path separators with hyphens and converts to lowercase
func SanitizeFilename(filename string) string {
	sanitized := strings.ReplaceAll(filename, " ", "-")
	sanitized = strings.ReplaceAll(sanitized, "/", "-")
	sanitized = strings.ReplaceAll(sanitized, "\\", "-")
	sanitized = strings.ReplaceAll(sanitized, "..", "-")

	return strings.ToLower(sanitized)
}

// ExtractBaseNameWithoutExt extracts the base filename without its final extension
func ExtractBaseNameWithoutExt(filename string) string {
	base := filepath.Base(filename)

	ext := filepath.Ext(base)
	nameWithoutExt := strings.TrimSuffix(base, ext)

	// Hidden files like .gitignore keep their full name
	if nameWithoutExt == "" {
		return base
	}

	return nameWithoutExt
}

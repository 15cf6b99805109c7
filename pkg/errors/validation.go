package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxColumnNameLength bounds column labels accepted from the command line.
const maxColumnNameLength = 256

// ValidateColumnName validates a column label supplied by the user (for
// example the target of rename_column).
//
// The validation rules are intentionally conservative:
//   - No empty names (after trimming)
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidArgument, "column name cannot be empty")
	}

	if len(name) > maxColumnNameLength {
		return New(ErrCodeInvalidArgument, "column name too long (max %d characters)", maxColumnNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a path the tool is about to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not point at a directory-like name (trailing separator)
//   - Must carry a file extension (the format is chosen from it)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory: %s", path)
	}

	if filepath.Ext(path) == "" {
		return New(ErrCodeInvalidPath, "path has no file extension: %s", path)
	}

	return nil
}

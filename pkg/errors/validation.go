package errors

import (
	"strings"
	"unicode"
)

// ValidateAlgorithm validates a layout algorithm name.
// Accepted values are "auto", "layered" and "force".
func ValidateAlgorithm(name string) error {
	switch name {
	case "auto", "layered", "force":
		return nil
	case "":
		return New(ErrCodeInvalidAlgorithm, "layout algorithm cannot be empty")
	default:
		return New(ErrCodeInvalidAlgorithm, "unknown layout algorithm: %q (expected auto, layered or force)", name)
	}
}

// ValidateOutputFormat validates a render output format.
// Accepted values are "json", "dot", "svg" and "png".
func ValidateOutputFormat(format string) error {
	switch format {
	case "json", "dot", "svg", "png":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	default:
		return New(ErrCodeInvalidFormat, "unknown output format: %q (expected json, dot, svg or png)", format)
	}
}

// ValidatePath validates a file path supplied by a user or an API client.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

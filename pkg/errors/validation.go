package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateModelID validates a model identifier used as a store key and URL segment.
// It rejects identifiers that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateModelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "model id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "model id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "model id contains invalid control characters")
		}
	}

	if !modelIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid model id: %q", id)
	}

	return nil
}

// modelIDRegex matches identifiers made of letters, digits, dot, dash and underscore.
var modelIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePath validates a relative file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateStoreURI validates a MongoDB or Redis connection string.
func ValidateStoreURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "connection string cannot be empty")
	}

	for _, scheme := range []string{"mongodb://", "mongodb+srv://", "redis://", "rediss://"} {
		if strings.HasPrefix(uri, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unsupported connection string scheme: %q", uri)
}

package errors

import (
	"strings"
	"unicode"
)

// MaxSourceSize is the largest .flow document accepted by the parser and
// the HTTP API.
const MaxSourceSize = 1 << 20

// ValidateSource checks a raw .flow document before parsing. It rejects
// empty input, oversized documents and NUL bytes.
func ValidateSource(src []byte) error {
	if len(strings.TrimSpace(string(src))) == 0 {
		return New(ErrCodeInvalidInput, "document is empty")
	}
	if len(src) > MaxSourceSize {
		return New(ErrCodeTooLarge, "document too large (max %d bytes)", MaxSourceSize)
	}
	if strings.ContainsRune(string(src), '\x00') {
		return New(ErrCodeInvalidInput, "document contains NUL bytes")
	}
	return nil
}

// ValidateOutputPath validates a path an artifact will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
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

	return nil
}

// ValidateURL validates a cache backend URL. Only the redis, rediss,
// mongodb and mongodb+srv schemes are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unsupported URL scheme in %q", rawURL)
}

package cell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxSourceSize is 64KB (conservative default)
	DefaultMaxSourceSize = 65536
	// EnvMaxSourceSize is the environment variable to override the default
	EnvMaxSourceSize = "SCRIPTCELL_MAX_SOURCE_SIZE"
)

var (
	ErrSourceTooLarge = errors.New("source exceeds maximum allowed size")
	ErrInvalidUTF8    = errors.New("source contains invalid UTF-8 sequences")
)

// SanitizeSource cleans edited source text by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
func SanitizeSource(source string) (string, error) {
	// 1. Enforce Size Limit
	limit := getMaxSourceSize()
	if len(source) > limit {
		// We explicitly reject rather than truncate to keep the buffer
		// deterministic.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrSourceTooLarge, len(source), limit)
	}

	// 2. Validate UTF-8
	if !utf8.ValidString(source) {
		return "", ErrInvalidUTF8
	}

	// 3. Strip Control Characters
	// We preserve:
	// - Newline (\n)
	// - Tab (\t)
	// - Carriage Return (\r) - treated as whitespace
	// We remove:
	// - ANSI codes (ESC), NULL, BEL, etc.
	// This prevents log poisoning and terminal corruption.

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range source {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return source, nil
	}

	// Slow path: build clean string
	var b strings.Builder
	b.Grow(len(source))
	for _, r := range source {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxSourceSize() int {
	if val := os.Getenv(EnvMaxSourceSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxSourceSize
}

package lexctrace

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/lexctrace/internal/compiler"
)

var (
	// DefaultMaxFormSize bounds the byte length of a queried form.
	DefaultMaxFormSize = 4096
	// EnvMaxFormSize is the environment variable overriding DefaultMaxFormSize.
	EnvMaxFormSize = "LEXCTRACE_MAX_FORM_SIZE"
)

var (
	ErrFormTooLarge = errors.New("form exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("form contains invalid UTF-8 sequences")
	ErrControlChar  = errors.New("form contains control characters")
)

// PrepareForm validates a user supplied form and rewrites it into the
// lexicon's escaped spelling.
func PrepareForm(form string) (string, error) {
	limit := maxFormSize()
	if len(form) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrFormTooLarge, len(form), limit)
	}
	if !utf8.ValidString(form) {
		return "", ErrInvalidUTF8
	}
	for _, r := range form {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q", ErrControlChar, r)
		}
	}
	return compiler.EscapeForm(form), nil
}

func maxFormSize() int {
	if val := os.Getenv(EnvMaxFormSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxFormSize
}

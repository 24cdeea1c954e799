package compiler

import "github.com/aretw0/lexctrace/pkg/domain"

// DecodeReplacement splits a replacement token on its unescaped ':' into the
// input and output fragments. A fragment spelled "0" is the empty string.
func DecodeReplacement(token string) (input, output string, err error) {
	parts := SplitUnescaped(token, ':')
	if len(parts) != 2 {
		return "", "", &domain.ReplacementDecodeError{Token: token, Parts: len(parts)}
	}
	return decodeFragment(parts[0]), decodeFragment(parts[1]), nil
}

func decodeFragment(s string) string {
	if s == domain.Epsilon {
		return ""
	}
	return s
}

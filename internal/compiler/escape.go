package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Escape is the character that neutralises the meaning of the one after it.
const Escape = '%'

// SplitUnescaped splits s around every occurrence of sep that is not escaped.
// Escape markers are kept in the returned parts.
func SplitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Escape:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// StripComment removes everything from the first unescaped '!' on.
func StripComment(line string) string {
	if i := indexUnescaped(line, '!'); i >= 0 {
		return line[:i]
	}
	return line
}

func indexUnescaped(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Escape:
			i++
		case c:
			return i
		}
	}
	return -1
}

// Fields splits s on runs of unescaped whitespace. Leading and trailing
// whitespace never produces empty fields.
func Fields(s string) []string {
	var fields []string
	start := -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == Escape {
			if start < 0 {
				start = i
			}
			i += size
			if i < len(s) {
				_, next := utf8.DecodeRuneInString(s[i:])
				i += next
			}
			continue
		}
		if unicode.IsSpace(r) {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		i += size
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

// TrimSpace removes surrounding whitespace but keeps trailing whitespace that
// is escaped.
func TrimSpace(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == Escape {
			i += size
			if i < len(s) {
				_, next := utf8.DecodeRuneInString(s[i:])
				i += next
			}
			end = i
			continue
		}
		i += size
		if !unicode.IsSpace(r) {
			end = i
		}
	}
	return s[:end]
}

// HasDanglingEscape reports whether s ends with an escape marker that has
// nothing left to escape.
func HasDanglingEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == Escape {
			if i == len(s)-1 {
				return true
			}
			i++
		}
	}
	return false
}

var (
	formEscaper   = strings.NewReplacer("<", "%<", ">", "%>")
	formUnescaper = strings.NewReplacer("%<", "<", "%>", ">")
)

// EscapeForm rewrites the angle brackets of a user supplied form into the
// lexicon's escaped spelling so it can be compared with rule fragments.
func EscapeForm(form string) string {
	return formEscaper.Replace(form)
}

// UnescapeForm reverses EscapeForm.
func UnescapeForm(form string) string {
	return formUnescaper.Replace(form)
}

// UnescapeDisplay drops every escape marker, keeping the escaped character.
func UnescapeDisplay(s string) string {
	if strings.IndexByte(s, Escape) < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == Escape && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

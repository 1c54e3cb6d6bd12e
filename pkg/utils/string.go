package utils

import (
	"strings"
	"unicode/utf8"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString cuts str to maxLength bytes like CutString and marks the cut with "...".
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	if len(str) <= maxLength {
		return str
	}

	return s.CutString(str, maxLength) + "..."
}

// CutString returns at most maxBytes bytes of str without splitting a rune.
func (s *StringHelper) CutString(str string, maxBytes int) string {
	if len(str) <= maxBytes {
		return str
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(str[cut]) {
		cut--
	}

	return str[:cut]
}

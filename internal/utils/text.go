package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 removes or replaces invalid UTF8 characters from a string
// Returns the cleaned string and a boolean indicating if cleaning was needed
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// NormalizeName is the comparison key for lookup names, catalog numbers and
// titles: surrounding whitespace trimmed, lowercased.
func NormalizeName(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimmedOrNil returns nil for nil or blank input, otherwise a pointer to the
// trimmed value.
func TrimmedOrNil(input *string) *string {
	if input == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*input)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

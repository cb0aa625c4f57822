package util

import "strings"

func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// NormalizeName prepares a user supplied entity name for storage and lookup.
func NormalizeName(value string) string {
	return strings.TrimSpace(SanitizePostgresText(value))
}

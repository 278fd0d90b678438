package util

import "strings"

// SanitizePostgresText drops invalid UTF-8 and NUL bytes, both of which
// Postgres rejects in text columns. Catalog names occasionally carry them.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// NormalizeName trims surrounding whitespace and collapses inner runs of
// whitespace to one space. Exact-match name lookups go through it.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

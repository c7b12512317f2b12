package web

import "strings"

// GetErrorHint returns a helpful hint for common query errors.
// Returns empty string if no hint is available.
func GetErrorHint(err string) string {
	errLower := strings.ToLower(err)

	switch {
	case strings.Contains(errLower, "not found"):
		return "Check the table name, or GET /api/tables for the tables currently open."
	case strings.Contains(errLower, "parse error"):
		return "Expected SELECT <key|value|key, value|*|COUNT(*)> FROM <table> [WHERE ...], or LOAD <table> FROM '<path>' [WITH INDEX]."
	case strings.Contains(errLower, "type mismatch"):
		return "key predicates compare against integers, value predicates against quoted strings."
	default:
		return ""
	}
}

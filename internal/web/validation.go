// Package web - input validation for web handlers.
//
// EDUCATIONAL NOTES:
// ------------------
// Table names reach this package from the URL path (/api/tables/{name}),
// so they're validated against the same identifier rules the parser
// accepts before being used to build a filesystem path: the catalog
// joins a table name straight into a file path and does no checking of
// its own.
package web

import "regexp"

// identifierPattern matches valid identifiers:
// - Must start with a letter (a-z, A-Z) or underscore
// - Can contain letters, numbers, and underscores
// - No spaces, dashes, or special characters
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidIdentifier checks if a string is a valid table identifier.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	return identifierPattern.MatchString(s)
}

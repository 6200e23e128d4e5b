// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-entered identity fields before they
// touch the database, so lookups and uniqueness checks compare like with like.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace; case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

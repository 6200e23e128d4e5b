// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied text before it is
// echoed back into pages or toast messages.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s, leaving plain text.
func Text(s string) string {
	return strict.Sanitize(s)
}

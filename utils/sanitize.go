package utils

import "github.com/microcosm-cc/bluemonday"

// Admin-entered names and descriptions are rendered by web clients; strict
// policy strips all markup rather than allowing a UGC subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from free-text input to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

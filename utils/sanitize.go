package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeLabel strips all markup from plain-text fields such as attachment
// display names and tag labels.
func SanitizeLabel(input string) string {
	return strings.TrimSpace(stripper.Sanitize(input))
}

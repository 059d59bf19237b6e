package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Display names carry no markup, so everything is stripped rather than filtered.
var sanitizer = bluemonday.StrictPolicy()

// SanitizeName strips any HTML from a user supplied display name.
func SanitizeName(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}

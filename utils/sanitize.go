package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup and leaves plain text. Every free-text field ends up
// verbatim in the PDF resume, so no HTML is kept.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(input)))
}

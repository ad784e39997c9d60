package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag from free-text fields.
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText removes markup and surrounding whitespace. Entities escaped by
// the policy are decoded again since the result is stored as plain text.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// sanitizeOptional sanitizes a nullable field, turning blanks into nil.
func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

// trimOptional trims a nullable plain field, turning blanks into nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

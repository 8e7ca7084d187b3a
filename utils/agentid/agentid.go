// Package agentid generates unique-enough identifiers for directory records
// from the display name of the submitting agent or institute.
package agentid

import (
	"strings"

	"github.com/google/uuid"
)

// Generate returns an identifier of the form "<slug>-<8 hex chars>", e.g.
// "punjab-college-3f9a21bc". The slug keeps at most the first four words of
// the name; the suffix makes collisions unlikely without a registry lookup.
func Generate(name string) string {
	slug := Slugify(name)
	if slug == "" {
		slug = "agent"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return slug + "-" + suffix
}

// Slugify lowercases the name and reduces it to hyphen-separated
// alphanumeric words.
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, "-")
}

// Package slug normalizes free-text concept names into stable identifiers.
//
// Concept graph nodes and pattern library entries are keyed by slugs so that
// the same display text always resolves to the same record: "Message Queue"
// and "message queue" are one node, not two.
package slug

import (
	"regexp"
	"strings"
)

// slugPattern matches a valid slug: lowercase alphanumeric with underscores.
var slugPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var whitespace = regexp.MustCompile(`\s+`)

// Make converts display text into a deterministic slug.
//
// Rules applied:
//   - Converts to lowercase
//   - Replaces whitespace runs with a single underscore
//   - Strips every other character outside [a-z0-9_]
//
// Examples:
//
//	"Message Queue"  -> "message_queue"
//	"CI/CD pipeline" -> "cicd_pipeline"
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespace.ReplaceAllString(s, "_")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return slugPattern.MatchString(s)
}

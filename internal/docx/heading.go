package docx

import "strings"

// IsHeading reports whether a paragraph style id marks a heading boundary.
func IsHeading(styleID string) bool {
	return HeadingLevel(styleID) > 0
}

// HeadingLevel extracts the heading level from a paragraph style id.
// "Heading1" → 1, "Title" → 1, "Subtitle" → 2, non-headings → 0.
// Localized style ids used by non-English Word builds are recognized too.
func HeadingLevel(styleID string) int {
	lower := strings.ToLower(styleID)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	// "Heading1", "heading1", "Titre1", etc.
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

package errors

import (
	"unicode"
)

// ValidateNodeID validates a graph node identifier.
// Node ids are the keys of every adjacency structure and appear verbatim in
// cache keys, DOT output, and the text graph format, so the rules are
// intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No whitespace (the text format is whitespace-delimited)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeStructural, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeStructural, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeStructural, "node id %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeStructural, "node id %q contains whitespace", id)
		}
	}

	return nil
}

// ValidateAttrName validates an edge attribute name (e.g. "flow", "length").
// Attribute names key into per-edge attribute maps and appear in DOT labels.
func ValidateAttrName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArgument, "attribute name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidArgument, "attribute name %q contains invalid characters", name)
		}
	}

	return nil
}

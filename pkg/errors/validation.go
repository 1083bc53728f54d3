package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateIdentifier validates a model identifier for safety and correctness.
// Identifiers end up as XML attribute values and CSV cells, so the rules are
// intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Maximum length of 256 characters
//   - Must start with a letter or underscore (NCName-compatible)
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeDuplicateIdentifier, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeIntegrityViolation, "identifier too long (max 256 characters): %q", id[:32]+"...")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeIntegrityViolation, "identifier contains invalid characters: %q", id)
		}
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeIntegrityViolation, "invalid identifier: %q", id)
	}

	return nil
}

// identifierRegex matches XML NCName-compatible identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// ValidatePropertyKey validates a property key.
// Keys are free-form but must be non-empty and printable, since they become
// CSV sub-cell tokens and XML attribute values.
func ValidatePropertyKey(key string) error {
	if key == "" {
		return New(ErrCodeIntegrityViolation, "property key cannot be empty")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeIntegrityViolation, "property key contains control characters: %q", key)
		}
	}

	// Reserved delimiters of the tabular properties cell
	if strings.ContainsAny(key, "=|") {
		return New(ErrCodeIntegrityViolation, "property key cannot contain '=' or '|': %q", key)
	}

	return nil
}

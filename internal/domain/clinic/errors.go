package clinic

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the domain. Every validation failure wraps exactly one
// of these so callers can branch with errors.Is without string matching.
var (
	// ErrRequired signals a missing required argument (nil pointer, zero time,
	// empty string where a value is mandatory).
	ErrRequired = errors.New("required value missing")

	// ErrBlank signals a required string that is whitespace-only.
	ErrBlank = errors.New("value is blank")

	// ErrFormat signals a malformed value: a national ID outside 7-8 digits,
	// a record with the wrong field count, or an unparseable token.
	ErrFormat = errors.New("invalid format")

	// ErrDomainRule signals a business-rule violation: negative cost,
	// past-dated scheduling, or a specialty mismatch.
	ErrDomainRule = errors.New("domain rule violated")

	// ErrNotFound signals a lookup key with no matching entity.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals an attempt to register an entity under a key that
	// is already taken.
	ErrDuplicate = errors.New("already exists")
)

// requireText validates a mandatory string field. Empty input maps to
// ErrRequired, whitespace-only input to ErrBlank.
func requireText(field, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%s: %w", field, ErrRequired)
	}
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s: %w", field, ErrBlank)
	}
	return value, nil
}

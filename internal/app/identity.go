package app

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID validates an externally supplied hex identifier and returns its
// canonical lowercase form. Identifiers are opaque to callers; they are
// only ever compared and used as lookup keys.
func parseID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	oid, err := primitive.ObjectIDFromHex(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return oid.Hex(), nil
}

// optionalID treats blank input as absent and otherwise behaves like
// parseID, except that undecodable input is also treated as absent. This
// mirrors how optional speaker references are accepted on lecture
// creation.
func optionalID(raw string) string {
	id, err := parseID(raw)
	if err != nil {
		return ""
	}
	return id
}

package livefeed

import (
	"fmt"
	"strings"
)

// NormalizeCourtID trims whitespace and leading zeros from a decimal court id.
// The hub identifies courts by integer, so "007" and "7" name the same room.
func NormalizeCourtID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidCourtID)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCourtID, raw)
		}
	}
	id = strings.TrimLeft(id, "0")
	if id == "" {
		id = "0"
	}
	return id, nil
}

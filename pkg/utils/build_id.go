package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateBuildID creates a short, human-readable saved build ID.
// Format: {shipID with hyphens}-{8charHexUUID}
//
// Example:
//   - Input: shipID="cobra_mk_iii"
//   - Output: "cobra-mk-iii-a3f8e2b1"
func GenerateBuildID(shipID string) string {
	prefix := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(shipID), "_", "-"))
	if prefix == "" {
		return generateShortUUID()
	}
	return prefix + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}

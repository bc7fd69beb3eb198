package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateTempPassword returns a throwaway password for accounts created
// without one, such as bulk imports.
func GenerateTempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

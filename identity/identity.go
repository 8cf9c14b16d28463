// Package identity generates paragraph identities and repairs duplicates
// introduced by editing.
package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// legacy is namespace for identities derived from non UUID strings.
var legacy = uuid.MustParse("6f1b7c0e-3a52-4d0e-9a43-0c8f5b1d2e77")

// New generates fresh time ordered identity.
func New() (uuid.NullUUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NullUUID{}, fmt.Errorf("unable to generate identity: %w", err)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// FromString converts identity found in markup. Anything which is not UUID
// is hashed so the same string always gives the same identity. Empty string
// means no identity.
func FromString(s string) uuid.NullUUID {
	if s == "" {
		return uuid.NullUUID{}
	}
	if id, err := uuid.Parse(s); err == nil {
		return uuid.NullUUID{UUID: id, Valid: true}
	}
	return uuid.NullUUID{UUID: uuid.NewSHA1(legacy, []byte(s)), Valid: true}
}

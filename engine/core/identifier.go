package core

import "github.com/google/uuid"

// NewIdentifier returns a fresh random identifier for engine objects.
func NewIdentifier() string {
	return uuid.NewString()
}

// IsIdentifier reports whether s was produced by NewIdentifier.
func IsIdentifier(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

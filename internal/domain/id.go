package domain

import "github.com/google/uuid"

// NewID returns a version-7 UUID. V7 IDs embed a millisecond timestamp, so
// their lexicographic order approximates creation order across all entities.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

package encounter

import "context"

type Repository interface {
	Create(ctx context.Context, enc *Encounter) error
	// GetByID returns the encounter or a not-found error.
	GetByID(ctx context.Context, id string) (*Encounter, error)
	// List returns all encounters ordered by start timestamp, newest first.
	List(ctx context.Context) ([]*Encounter, error)
	// Update persists enc if its VersionID still matches the stored row,
	// then increments it. A stale version is rejected so concurrent
	// read-modify-write cycles on one encounter cannot lose updates.
	Update(ctx context.Context, enc *Encounter) error
}

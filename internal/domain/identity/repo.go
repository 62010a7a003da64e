package identity

import "context"

type Repository interface {
	// FindOrCreatePatient returns the patient with the given id, creating it
	// with the supplied attributes if absent. Attributes of an existing
	// patient are never overwritten.
	FindOrCreatePatient(ctx context.Context, p *Patient) (*Patient, error)
	GetPatient(ctx context.Context, id string) (*Patient, error)

	FindOrCreateClinician(ctx context.Context, c *Clinician) (*Clinician, error)
	GetClinician(ctx context.Context, id string) (*Clinician, error)
}

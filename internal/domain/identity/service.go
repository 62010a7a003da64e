package identity

import (
	"context"

	"github.com/scribe/scribe/internal/platform/apperror"
)

// Default clinician identity, auto-provisioned when an encounter is created
// without an explicit clinician.
const (
	DefaultClinicianName      = "Dr. Gregory House"
	DefaultClinicianSpecialty = "Internal Medicine"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsurePatient looks the patient up by id, creating it with the supplied
// attributes if absent. A missing display name defaults to the identifier.
func (s *Service) EnsurePatient(ctx context.Context, p *Patient) (*Patient, error) {
	if p.ID == "" {
		return nil, apperror.New(apperror.KindValidation, "patient id is required")
	}
	if p.Name == "" {
		p.Name = p.ID
	}
	return s.repo.FindOrCreatePatient(ctx, p)
}

// EnsureClinician looks the clinician up by id, creating it if absent.
func (s *Service) EnsureClinician(ctx context.Context, c *Clinician) (*Clinician, error) {
	if c.ID == "" {
		return nil, apperror.New(apperror.KindValidation, "clinician id is required")
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	return s.repo.FindOrCreateClinician(ctx, c)
}

// EnsureDefaultClinician provisions the well-known fallback clinician.
func (s *Service) EnsureDefaultClinician(ctx context.Context, id string) (*Clinician, error) {
	specialty := DefaultClinicianSpecialty
	return s.repo.FindOrCreateClinician(ctx, &Clinician{
		ID:        id,
		Name:      DefaultClinicianName,
		Specialty: &specialty,
	})
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetPatient(ctx, id)
}

func (s *Service) GetClinician(ctx context.Context, id string) (*Clinician, error) {
	return s.repo.GetClinician(ctx, id)
}

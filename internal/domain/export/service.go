package export

import (
	"context"
	"time"

	"github.com/scribe/scribe/internal/domain/encounter"
	"github.com/scribe/scribe/internal/domain/identity"
	"github.com/scribe/scribe/internal/platform/fhir"
)

// Pusher stores an exported bundle on the external document server.
type Pusher interface {
	Push(ctx context.Context, bundle *fhir.Bundle) (*fhir.PushResult, error)
}

type Service struct {
	encounters *encounter.Service
	identities *identity.Service
	pusher     Pusher
}

func NewService(encounters *encounter.Service, identities *identity.Service, pusher Pusher) *Service {
	return &Service{encounters: encounters, identities: identities, pusher: pusher}
}

// Export builds the bundle for one encounter without touching any external
// system. Works in every lifecycle state; an unsigned encounter exports with
// status in-progress and an open-ended period closed at now.
func (s *Service) Export(ctx context.Context, encounterID string) (*fhir.Bundle, error) {
	enc, patient, clinician, err := s.load(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	return BuildBundle(enc, patient, clinician, time.Now().UTC()), nil
}

// ExportAndPush builds the bundle, stores it on the document server, and
// records the assigned id on the encounter.
func (s *Service) ExportAndPush(ctx context.Context, encounterID string) (*fhir.PushResult, *encounter.Encounter, error) {
	enc, patient, clinician, err := s.load(ctx, encounterID)
	if err != nil {
		return nil, nil, err
	}

	bundle := BuildBundle(enc, patient, clinician, time.Now().UTC())
	result, err := s.pusher.Push(ctx, bundle)
	if err != nil {
		return nil, nil, err
	}

	enc, err = s.encounters.RecordBundleID(ctx, encounterID, result.ID)
	if err != nil {
		return nil, nil, err
	}
	return result, enc, nil
}

func (s *Service) load(ctx context.Context, encounterID string) (*encounter.Encounter, *identity.Patient, *identity.Clinician, error) {
	enc, err := s.encounters.Get(ctx, encounterID)
	if err != nil {
		return nil, nil, nil, err
	}
	patient, err := s.identities.GetPatient(ctx, enc.PatientID)
	if err != nil {
		return nil, nil, nil, err
	}
	clinician, err := s.identities.GetClinician(ctx, enc.ClinicianID)
	if err != nil {
		return nil, nil, nil, err
	}
	return enc, patient, clinician, nil
}

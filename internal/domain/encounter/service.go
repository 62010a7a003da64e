package encounter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/scribe/scribe/internal/domain/identity"
	"github.com/scribe/scribe/internal/platform/ai"
	"github.com/scribe/scribe/internal/platform/apperror"
)

// NoteGenerator is the external note-generation collaborator. The call is
// bounded by the implementation's timeout and is never retried here.
type NoteGenerator interface {
	GenerateSOAP(ctx context.Context, transcript string) (*ai.Result, error)
}

// Service is the lifecycle controller: the only legal mutation path for an
// encounter. Every operation re-reads the encounter, checks the lifecycle
// state, and writes back through the store's optimistic version check, so a
// losing concurrent caller is rejected rather than silently overwritten.
type Service struct {
	repo               Repository
	identities         *identity.Service
	notes              NoteGenerator
	defaultClinicianID string
}

func NewService(repo Repository, identities *identity.Service, notes NoteGenerator, defaultClinicianID string) *Service {
	return &Service{
		repo:               repo,
		identities:         identities,
		notes:              notes,
		defaultClinicianID: defaultClinicianID,
	}
}

// CreateInput carries the create operation's parameters. Patient attributes
// apply only when the patient does not exist yet.
type CreateInput struct {
	PatientID   string
	PatientName string
	PatientDOB  *time.Time
	PatientMRN  *string
	ClinicianID string
}

// CreateResult bundles the new encounter with the resolved identities so
// callers can denormalize display fields without refetching.
type CreateResult struct {
	Encounter *Encounter
	Patient   *identity.Patient
	Clinician *identity.Clinician
}

// Create provisions both identities and starts a new encounter in recording.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.PatientID == "" {
		return nil, apperror.New(apperror.KindValidation, "patient id is required")
	}

	patient, err := s.identities.EnsurePatient(ctx, &identity.Patient{
		ID:   in.PatientID,
		Name: in.PatientName,
		DOB:  in.PatientDOB,
		MRN:  in.PatientMRN,
	})
	if err != nil {
		return nil, err
	}

	var clinician *identity.Clinician
	if in.ClinicianID == "" {
		clinician, err = s.identities.EnsureDefaultClinician(ctx, s.defaultClinicianID)
	} else {
		clinician, err = s.identities.EnsureClinician(ctx, &identity.Clinician{ID: in.ClinicianID})
	}
	if err != nil {
		return nil, err
	}

	enc := &Encounter{
		ID:             uuid.New().String(),
		PatientID:      patient.ID,
		ClinicianID:    clinician.ID,
		Status:         StatusRecording,
		StartedAt:      time.Now().UTC(),
		DiagnosisCodes: []string{},
	}
	if err := s.repo.Create(ctx, enc); err != nil {
		return nil, err
	}

	return &CreateResult{Encounter: enc, Patient: patient, Clinician: clinician}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Encounter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Encounter, error) {
	return s.repo.List(ctx)
}

// ApplyPatch applies a partial update. Signed encounters are immutable.
func (s *Service) ApplyPatch(ctx context.Context, id string, patch *Patch) (*Encounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.Status == StatusSigned {
		return nil, apperror.New(apperror.KindInvalidState, "encounter %s is signed and cannot be modified", id)
	}
	if err := enc.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// AttachTranscript stores the transcript and moves a recording encounter to
// processing. Encounters already past recording keep their status.
func (s *Service) AttachTranscript(ctx context.Context, id, transcript string) (*Encounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.Status == StatusSigned {
		return nil, apperror.New(apperror.KindInvalidState, "encounter %s is signed and cannot be modified", id)
	}

	enc.Transcript = &transcript
	if enc.Status == StatusRecording {
		enc.Status = StatusProcessing
	}

	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// GenerateNote delegates to the note-generation collaborator and, on
// success, sets all four note sections and the diagnosis codes together,
// advancing the encounter to review. On failure the encounter is left
// unmodified; re-generating while under review is allowed.
func (s *Service) GenerateNote(ctx context.Context, id string) (*Encounter, *ai.Result, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if enc.Status == StatusSigned {
		return nil, nil, apperror.New(apperror.KindInvalidState, "encounter %s is signed and cannot be modified", id)
	}
	if !enc.HasTranscript() {
		return nil, nil, apperror.New(apperror.KindPreconditionFailed, "encounter %s has no transcript", id)
	}

	result, err := s.notes.GenerateSOAP(ctx, *enc.Transcript)
	if err != nil {
		return nil, nil, err
	}

	enc.NoteSubjective = &result.SOAP.Subjective
	enc.NoteObjective = &result.SOAP.Objective
	enc.NoteAssessment = &result.SOAP.Assessment
	enc.NotePlan = &result.SOAP.Plan
	if result.ICD10Codes != nil {
		enc.DiagnosisCodes = result.ICD10Codes
	} else {
		enc.DiagnosisCodes = []string{}
	}
	if enc.Status.Before(StatusReview) {
		enc.Status = StatusReview
	}

	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, nil, err
	}
	return enc, result, nil
}

// Sign finalizes the encounter. Re-signing is rejected, not idempotent.
func (s *Service) Sign(ctx context.Context, id string) (*Encounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enc.Status == StatusSigned {
		return nil, apperror.New(apperror.KindInvalidState, "encounter %s is already signed", id)
	}
	if !enc.HasNote() {
		return nil, apperror.New(apperror.KindInvalidState, "encounter %s has no complete note to sign", id)
	}

	now := time.Now().UTC()
	enc.Status = StatusSigned
	enc.SignedAt = &now

	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// RecordBundleID stores the external document server id assigned to an
// exported bundle. Allowed in any state: it does not touch the transcript,
// note, or status.
func (s *Service) RecordBundleID(ctx context.Context, id, bundleID string) (*Encounter, error) {
	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	enc.FHIRBundleID = &bundleID
	if err := s.repo.Update(ctx, enc); err != nil {
		return nil, err
	}
	return enc, nil
}

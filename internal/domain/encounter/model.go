package encounter

import (
	"time"

	"github.com/scribe/scribe/internal/platform/apperror"
	"github.com/scribe/scribe/internal/platform/fhir"
)

// Coding system URIs used by the exported Encounter resource.
const (
	ActCodeSystem = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
	ICD10System   = "http://hl7.org/fhir/sid/icd-10"
)

// Status is the encounter lifecycle state. Transitions are strictly
// forward-only: recording → processing → review → signed.
type Status string

const (
	StatusRecording  Status = "recording"
	StatusProcessing Status = "processing"
	StatusReview     Status = "review"
	StatusSigned     Status = "signed"
)

var statusRank = map[Status]int{
	StatusRecording:  0,
	StatusProcessing: 1,
	StatusReview:     2,
	StatusSigned:     3,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank returns the position of s in the lifecycle order. Unknown statuses
// rank below recording.
func (s Status) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// Before reports whether s precedes other in the lifecycle order.
func (s Status) Before(other Status) bool {
	return s.Rank() < other.Rank()
}

// Encounter maps to the encounter table. Patient and clinician references
// are fixed at creation.
type Encounter struct {
	ID             string     `db:"id" json:"id"`
	PatientID      string     `db:"patient_id" json:"patient_id"`
	ClinicianID    string     `db:"clinician_id" json:"clinician_id"`
	Status         Status     `db:"status" json:"status"`
	StartedAt      time.Time  `db:"started_at" json:"started_at"`
	SignedAt       *time.Time `db:"signed_at" json:"signed_at,omitempty"`
	Transcript     *string    `db:"transcript" json:"transcript,omitempty"`
	NoteSubjective *string    `db:"note_subjective" json:"note_subjective,omitempty"`
	NoteObjective  *string    `db:"note_objective" json:"note_objective,omitempty"`
	NoteAssessment *string    `db:"note_assessment" json:"note_assessment,omitempty"`
	NotePlan       *string    `db:"note_plan" json:"note_plan,omitempty"`
	DiagnosisCodes []string   `db:"diagnosis_codes" json:"diagnosis_codes"`
	FHIRBundleID   *string    `db:"fhir_bundle_id" json:"fhir_bundle_id,omitempty"`
	VersionID      int        `db:"version_id" json:"version_id"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// HasNote reports whether all four note sections are populated. The four
// fields are only ever set together.
func (e *Encounter) HasNote() bool {
	return e.NoteSubjective != nil && e.NoteObjective != nil &&
		e.NoteAssessment != nil && e.NotePlan != nil
}

// HasTranscript reports whether a non-empty transcript is attached.
func (e *Encounter) HasTranscript() bool {
	return e.Transcript != nil && *e.Transcript != ""
}

// ToFHIR renders the Encounter resource for export. Period end falls back
// to now when the encounter has not been signed yet.
func (e *Encounter) ToFHIR(now time.Time) map[string]interface{} {
	status := "in-progress"
	if e.Status == StatusSigned {
		status = "finished"
	}

	start := e.StartedAt
	end := now
	if e.SignedAt != nil {
		end = *e.SignedAt
	}

	result := map[string]interface{}{
		"resourceType": "Encounter",
		"id":           "encounter-" + e.ID,
		"status":       status,
		"class": fhir.Coding{
			System:  ActCodeSystem,
			Code:    "AMB",
			Display: "ambulatory",
		},
		"subject": fhir.Reference{
			Reference: fhir.FormatReference("Patient", "patient-"+e.PatientID),
		},
		"participant": []map[string]interface{}{
			{
				"individual": fhir.Reference{
					Reference: fhir.FormatReference("Practitioner", "practitioner-"+e.ClinicianID),
				},
			},
		},
		"period": fhir.Period{Start: &start, End: &end},
	}

	if len(e.DiagnosisCodes) > 0 {
		codings := make([]fhir.Coding, len(e.DiagnosisCodes))
		for i, code := range e.DiagnosisCodes {
			codings[i] = fhir.Coding{System: ICD10System, Code: code, Display: code}
		}
		result["reasonCode"] = []fhir.CodeableConcept{{Coding: codings}}
	}

	return result
}

// Patch is the tagged partial update accepted by the record store. Fields
// left nil are untouched. Patient and clinician references are deliberately
// not expressible.
type Patch struct {
	Transcript     *string   `json:"transcript"`
	Status         *Status   `json:"status"`
	NoteSubjective *string   `json:"note_subjective"`
	NoteObjective  *string   `json:"note_objective"`
	NoteAssessment *string   `json:"note_assessment"`
	NotePlan       *string   `json:"note_plan"`
	DiagnosisCodes *[]string `json:"diagnosis_codes"`
}

// Validate rejects patches that would violate record invariants regardless
// of the encounter they target.
func (p *Patch) Validate() error {
	noteFields := 0
	for _, f := range []*string{p.NoteSubjective, p.NoteObjective, p.NoteAssessment, p.NotePlan} {
		if f != nil {
			noteFields++
		}
	}
	if noteFields != 0 && noteFields != 4 {
		return apperror.New(apperror.KindValidation, "note fields must be set together (got %d of 4)", noteFields)
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperror.New(apperror.KindValidation, "invalid status %q", *p.Status)
	}
	return nil
}

// Apply mutates e according to the patch, enforcing forward-only status
// movement. Signing must go through the sign operation, so a patch cannot
// set status signed.
func (e *Encounter) Apply(p *Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Status != nil {
		if *p.Status == StatusSigned {
			return apperror.New(apperror.KindInvalidState, "status signed can only be reached via sign")
		}
		if p.Status.Before(e.Status) {
			return apperror.New(apperror.KindInvalidState, "status cannot move from %s back to %s", e.Status, *p.Status)
		}
		e.Status = *p.Status
	}

	if p.Transcript != nil {
		e.Transcript = p.Transcript
	}

	if p.NoteSubjective != nil {
		e.NoteSubjective = p.NoteSubjective
		e.NoteObjective = p.NoteObjective
		e.NoteAssessment = p.NoteAssessment
		e.NotePlan = p.NotePlan
	}

	if p.DiagnosisCodes != nil {
		e.DiagnosisCodes = *p.DiagnosisCodes
	}

	return nil
}

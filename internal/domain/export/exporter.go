// Package export renders encounter records as FHIR R4 collection bundles
// and pushes them to an external document server.
package export

import (
	"time"

	"github.com/scribe/scribe/internal/domain/encounter"
	"github.com/scribe/scribe/internal/domain/identity"
	"github.com/scribe/scribe/internal/platform/fhir"
)

const (
	loincSystem         = "http://loinc.org"
	outpatientNoteCode  = "34108-1"
	outpatientNoteLabel = "Outpatient Note"
	missingSectionText  = "N/A"
)

// BuildBundle assembles the four-resource export document: Patient,
// Practitioner, Encounter, Composition, in that order. Pure apart from the
// caller-supplied now, which stamps the bundle and stands in for unset
// period ends and the composition date.
func BuildBundle(enc *encounter.Encounter, patient *identity.Patient, clinician *identity.Clinician, now time.Time) *fhir.Bundle {
	resources := []interface{}{
		patient.ToFHIR(),
		clinician.ToFHIR(),
		enc.ToFHIR(now),
		buildComposition(enc, now),
	}
	return fhir.NewCollectionBundle(resources, now)
}

// buildComposition renders the four-section clinical document. Status is
// always final regardless of the encounter's lifecycle status; absent note
// fields render as an N/A placeholder rather than being dropped.
func buildComposition(enc *encounter.Encounter, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"resourceType": "Composition",
		"id":           "composition-" + enc.ID,
		"status":       "final",
		"type": fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  loincSystem,
				Code:    outpatientNoteCode,
				Display: outpatientNoteLabel,
			}},
		},
		"subject": fhir.Reference{
			Reference: fhir.FormatReference("Patient", "patient-"+enc.PatientID),
		},
		"author": []fhir.Reference{{
			Reference: fhir.FormatReference("Practitioner", "practitioner-"+enc.ClinicianID),
		}},
		"encounter": fhir.Reference{
			Reference: fhir.FormatReference("Encounter", "encounter-"+enc.ID),
		},
		"date":  now.Format(time.RFC3339),
		"title": outpatientNoteLabel,
		"section": []fhir.Section{
			section("Subjective", "Patient symptoms and history", enc.NoteSubjective),
			section("Objective", "Physical exam and vitals", enc.NoteObjective),
			section("Assessment", "Diagnoses", enc.NoteAssessment),
			section("Plan", "Treatment plan", enc.NotePlan),
		},
	}
}

func section(title, codeText string, body *string) fhir.Section {
	text := missingSectionText
	if body != nil {
		text = *body
	}
	return fhir.Section{
		Title: title,
		Code:  fhir.CodeableConcept{Text: codeText},
		Text:  fhir.Narrative{Div: "<div>" + text + "</div>"},
	}
}

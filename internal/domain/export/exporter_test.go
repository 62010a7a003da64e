package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/scribe/scribe/internal/domain/encounter"
	"github.com/scribe/scribe/internal/domain/identity"
	"github.com/scribe/scribe/internal/platform/fhir"
)

func str(s string) *string { return &s }

func decodeEntries(t *testing.T, bundle *fhir.Bundle) []map[string]interface{} {
	t.Helper()
	out := make([]map[string]interface{}, len(bundle.Entry))
	for i, e := range bundle.Entry {
		var m map[string]interface{}
		if err := json.Unmarshal(e.Resource, &m); err != nil {
			t.Fatalf("entry %d does not decode: %v", i, err)
		}
		out[i] = m
	}
	return out
}

func sampleInputs() (*encounter.Encounter, *identity.Patient, *identity.Clinician) {
	specialty := "Internal Medicine"
	enc := &encounter.Encounter{
		ID:          "enc-001",
		PatientID:   "patient-001",
		ClinicianID: "dr-house",
		Status:      encounter.StatusReview,
		StartedAt:   time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		Transcript:  str("Patient reports headache"),
	}
	patient := &identity.Patient{ID: "patient-001", Name: "John Smith"}
	clinician := &identity.Clinician{ID: "dr-house", Name: "Dr. Gregory House", Specialty: &specialty}
	return enc, patient, clinician
}

func TestBuildBundleShape(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	bundle := BuildBundle(enc, patient, clinician, now)
	if bundle.ResourceType != "Bundle" || bundle.Type != "collection" {
		t.Errorf("unexpected bundle header: %s/%s", bundle.ResourceType, bundle.Type)
	}
	if bundle.Timestamp == nil || !bundle.Timestamp.Equal(now) {
		t.Errorf("unexpected bundle timestamp: %v", bundle.Timestamp)
	}
	if len(bundle.Entry) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(bundle.Entry))
	}

	entries := decodeEntries(t, bundle)
	order := []string{"Patient", "Practitioner", "Encounter", "Composition"}
	for i, want := range order {
		if entries[i]["resourceType"] != want {
			t.Errorf("entry %d: expected %s, got %v", i, want, entries[i]["resourceType"])
		}
	}
	if bundle.Entry[0].FullURL != "Patient/patient-patient-001" {
		t.Errorf("unexpected fullUrl: %s", bundle.Entry[0].FullURL)
	}
}

func TestBuildBundlePatientNameSplit(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	bundle := BuildBundle(enc, patient, clinician, time.Now())

	entries := decodeEntries(t, bundle)
	names := entries[0]["name"].([]interface{})
	name := names[0].(map[string]interface{})
	if name["family"] != "Smith" {
		t.Errorf("expected family Smith, got %v", name["family"])
	}
	given := name["given"].([]interface{})
	if len(given) != 1 || given[0] != "John" {
		t.Errorf("expected given [John], got %v", given)
	}
}

func TestBuildBundleCompositionSections(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	enc.NoteSubjective = str("Headache for three days.")
	enc.NoteObjective = str("BP 120/80.")
	enc.NoteAssessment = str("Tension headache.")
	enc.NotePlan = str("Rest and fluids.")

	bundle := BuildBundle(enc, patient, clinician, time.Now())
	comp := decodeEntries(t, bundle)[3]

	if comp["id"] != "composition-enc-001" {
		t.Errorf("unexpected composition id: %v", comp["id"])
	}
	if comp["status"] != "final" {
		t.Errorf("composition status must always be final, got %v", comp["status"])
	}

	typ := comp["type"].(map[string]interface{})
	coding := typ["coding"].([]interface{})[0].(map[string]interface{})
	if coding["system"] != loincSystem || coding["code"] != outpatientNoteCode {
		t.Errorf("unexpected type coding: %v", coding)
	}

	sections := comp["section"].([]interface{})
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}
	wantTitles := []string{"Subjective", "Objective", "Assessment", "Plan"}
	wantCodes := []string{
		"Patient symptoms and history",
		"Physical exam and vitals",
		"Diagnoses",
		"Treatment plan",
	}
	for i, raw := range sections {
		sec := raw.(map[string]interface{})
		if sec["title"] != wantTitles[i] {
			t.Errorf("section %d: expected title %s, got %v", i, wantTitles[i], sec["title"])
		}
		code := sec["code"].(map[string]interface{})
		if code["text"] != wantCodes[i] {
			t.Errorf("section %d: expected code text %q, got %v", i, wantCodes[i], code["text"])
		}
	}

	first := sections[0].(map[string]interface{})["text"].(map[string]interface{})
	if first["div"] != "<div>Headache for three days.</div>" {
		t.Errorf("unexpected narrative: %v", first["div"])
	}
}

func TestBuildBundleMissingNoteRendersPlaceholder(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	bundle := BuildBundle(enc, patient, clinician, time.Now())
	comp := decodeEntries(t, bundle)[3]

	sections := comp["section"].([]interface{})
	for i, raw := range sections {
		sec := raw.(map[string]interface{})
		text := sec["text"].(map[string]interface{})
		if text["div"] != "<div>N/A</div>" {
			t.Errorf("section %d: expected N/A placeholder, got %v", i, text["div"])
		}
	}
}

func TestBuildBundleSignedEncounterPeriod(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	signed := time.Date(2026, 1, 10, 9, 45, 0, 0, time.UTC)
	enc.Status = encounter.StatusSigned
	enc.SignedAt = &signed

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bundle := BuildBundle(enc, patient, clinician, now)
	encRes := decodeEntries(t, bundle)[2]

	if encRes["status"] != "finished" {
		t.Errorf("expected finished, got %v", encRes["status"])
	}
	period := encRes["period"].(map[string]interface{})
	end, err := time.Parse(time.RFC3339, period["end"].(string))
	if err != nil {
		t.Fatalf("bad period end: %v", err)
	}
	if !end.Equal(signed) {
		t.Errorf("period end must be the signing time, got %v", end)
	}
}

func TestBuildBundleOmitsEmptyReasonCode(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	bundle := BuildBundle(enc, patient, clinician, time.Now())
	encRes := decodeEntries(t, bundle)[2]

	if _, ok := encRes["reasonCode"]; ok {
		t.Error("reasonCode must be omitted when no diagnosis codes exist")
	}
}

func TestBuildBundleDeterministic(t *testing.T) {
	enc, patient, clinician := sampleInputs()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	a, _ := json.Marshal(BuildBundle(enc, patient, clinician, now))
	b, _ := json.Marshal(BuildBundle(enc, patient, clinician, now))
	if string(a) != string(b) {
		t.Error("bundle must be deterministic for a fixed now")
	}
}

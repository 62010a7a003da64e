package identity

import (
	"testing"
	"time"

	"github.com/scribe/scribe/internal/platform/fhir"
)

func TestPatientToFHIRNameSplit(t *testing.T) {
	p := &Patient{ID: "patient-001", Name: "John Smith"}
	resource := p.ToFHIR()

	if resource["resourceType"] != "Patient" {
		t.Errorf("unexpected resourceType: %v", resource["resourceType"])
	}
	if resource["id"] != "patient-patient-001" {
		t.Errorf("unexpected id: %v", resource["id"])
	}

	names := resource["name"].([]fhir.HumanName)
	if names[0].Family != "Smith" {
		t.Errorf("expected family Smith, got %s", names[0].Family)
	}
	if len(names[0].Given) != 1 || names[0].Given[0] != "John" {
		t.Errorf("expected given [John], got %v", names[0].Given)
	}
}

func TestPatientToFHIRMiddleNameDropped(t *testing.T) {
	p := &Patient{ID: "p1", Name: "Mary Jane Watson"}
	names := p.ToFHIR()["name"].([]fhir.HumanName)

	// Only first and last tokens survive the split.
	if names[0].Family != "Watson" {
		t.Errorf("expected family Watson, got %s", names[0].Family)
	}
	if len(names[0].Given) != 1 || names[0].Given[0] != "Mary" {
		t.Errorf("expected given [Mary], got %v", names[0].Given)
	}
}

func TestPatientToFHIRSingleTokenName(t *testing.T) {
	// A single-token name resolves to both given and family. This mirrors
	// the original system and is intentional even though no family name
	// actually exists.
	p := &Patient{ID: "p1", Name: "Cher"}
	names := p.ToFHIR()["name"].([]fhir.HumanName)

	if names[0].Family != "Cher" {
		t.Errorf("expected family Cher, got %s", names[0].Family)
	}
	if len(names[0].Given) != 1 || names[0].Given[0] != "Cher" {
		t.Errorf("expected given [Cher], got %v", names[0].Given)
	}
}

func TestPatientToFHIRIdentifierOnlyWithMRN(t *testing.T) {
	p := &Patient{ID: "p1", Name: "John Smith"}
	if _, ok := p.ToFHIR()["identifier"]; ok {
		t.Error("expected no identifier without an MRN")
	}

	mrn := "MRN-12345"
	p.MRN = &mrn
	ids, ok := p.ToFHIR()["identifier"].([]fhir.Identifier)
	if !ok || len(ids) != 1 {
		t.Fatal("expected one identifier with an MRN")
	}
	if ids[0].System != MRNSystem || ids[0].Value != "MRN-12345" {
		t.Errorf("unexpected identifier: %+v", ids[0])
	}
}

func TestPatientToFHIRBirthDate(t *testing.T) {
	dob := time.Date(1965, 3, 15, 0, 0, 0, 0, time.UTC)
	p := &Patient{ID: "p1", Name: "John Smith", DOB: &dob}

	if got := p.ToFHIR()["birthDate"]; got != "1965-03-15" {
		t.Errorf("expected 1965-03-15, got %v", got)
	}

	p.DOB = nil
	if _, ok := p.ToFHIR()["birthDate"]; ok {
		t.Error("expected no birthDate without a DOB")
	}
}

func TestClinicianToFHIRName(t *testing.T) {
	c := &Clinician{ID: "dr-house", Name: "Gregory House"}
	resource := c.ToFHIR()

	if resource["id"] != "practitioner-dr-house" {
		t.Errorf("unexpected id: %v", resource["id"])
	}

	names := resource["name"].([]fhir.HumanName)
	if names[0].Family != "House" {
		t.Errorf("expected family House, got %s", names[0].Family)
	}
	if len(names[0].Given) != 1 || names[0].Given[0] != "Gregory" {
		t.Errorf("expected given [Gregory], got %v", names[0].Given)
	}
	if len(names[0].Prefix) != 1 || names[0].Prefix[0] != "Dr." {
		t.Errorf("expected prefix [Dr.], got %v", names[0].Prefix)
	}
}

func TestClinicianToFHIRMultiTokenGiven(t *testing.T) {
	c := &Clinician{ID: "c1", Name: "James Robert Wilson"}
	names := c.ToFHIR()["name"].([]fhir.HumanName)

	if names[0].Family != "Wilson" {
		t.Errorf("expected family Wilson, got %s", names[0].Family)
	}
	if len(names[0].Given) != 1 || names[0].Given[0] != "James Robert" {
		t.Errorf("expected single joined given entry, got %v", names[0].Given)
	}
}

func TestClinicianToFHIRQualification(t *testing.T) {
	c := &Clinician{ID: "c1", Name: "Gregory House"}
	if _, ok := c.ToFHIR()["qualification"]; ok {
		t.Error("expected no qualification without a specialty")
	}

	specialty := "Internal Medicine"
	c.Specialty = &specialty
	quals, ok := c.ToFHIR()["qualification"].([]map[string]interface{})
	if !ok || len(quals) != 1 {
		t.Fatal("expected one qualification entry")
	}
	code := quals[0]["code"].(fhir.CodeableConcept)
	if code.Coding[0].Code != "MD" {
		t.Errorf("expected MD, got %s", code.Coding[0].Code)
	}
	if code.Coding[0].System != QualificationSystem {
		t.Errorf("unexpected system: %s", code.Coding[0].System)
	}
	if code.Coding[0].Display != "Internal Medicine" {
		t.Errorf("expected specialty as display, got %s", code.Coding[0].Display)
	}
}

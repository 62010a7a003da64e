package identity

import (
	"strings"
	"time"

	"github.com/scribe/scribe/internal/platform/fhir"
)

// Coding system URIs used by the exported resources.
const (
	MRNSystem           = "http://hospital.example.org/mrn"
	QualificationSystem = "http://terminology.hl7.org/CodeSystem/v2-0360"
)

// Patient maps to the patient table. Identifiers are caller-supplied;
// attributes are fixed at first creation.
type Patient struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	DOB       *time.Time `db:"dob" json:"dob,omitempty"`
	MRN       *string    `db:"mrn" json:"mrn,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// ToFHIR renders the Patient resource for export. The display name is split
// on whitespace: first token becomes the sole given name, last token the
// family name. A single-token name maps to both, mirroring the behavior the
// original system shipped with.
func (p *Patient) ToFHIR() map[string]interface{} {
	result := map[string]interface{}{
		"resourceType": "Patient",
		"id":           "patient-" + p.ID,
	}

	if tokens := strings.Fields(p.Name); len(tokens) > 0 {
		result["name"] = []fhir.HumanName{{
			Use:    "official",
			Given:  []string{tokens[0]},
			Family: tokens[len(tokens)-1],
		}}
	}

	if p.MRN != nil {
		result["identifier"] = []fhir.Identifier{{
			Use:    "usual",
			System: MRNSystem,
			Value:  *p.MRN,
		}}
	}

	if p.DOB != nil {
		result["birthDate"] = p.DOB.Format("2006-01-02")
	}

	return result
}

// Clinician maps to the clinician table.
type Clinician struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ToFHIR renders the Practitioner resource. The last whitespace-delimited
// token is the family name; all preceding tokens joined form the single
// given entry. The "Dr." prefix is always attached.
func (c *Clinician) ToFHIR() map[string]interface{} {
	result := map[string]interface{}{
		"resourceType": "Practitioner",
		"id":           "practitioner-" + c.ID,
	}

	if tokens := strings.Fields(c.Name); len(tokens) > 0 {
		name := fhir.HumanName{
			Use:    "official",
			Family: tokens[len(tokens)-1],
			Prefix: []string{"Dr."},
		}
		if len(tokens) > 1 {
			name.Given = []string{strings.Join(tokens[:len(tokens)-1], " ")}
		}
		result["name"] = []fhir.HumanName{name}
	}

	if c.Specialty != nil {
		result["qualification"] = []map[string]interface{}{{
			"code": fhir.CodeableConcept{
				Coding: []fhir.Coding{{
					System:  QualificationSystem,
					Code:    "MD",
					Display: *c.Specialty,
				}},
			},
		}}
	}

	return result
}

package fhir

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewCollectionBundle(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	resources := []interface{}{
		map[string]interface{}{"resourceType": "Patient", "id": "patient-001"},
		map[string]interface{}{"resourceType": "Practitioner", "id": "practitioner-dr-house"},
	}

	bundle := NewCollectionBundle(resources, now)

	if bundle.ResourceType != "Bundle" {
		t.Errorf("expected Bundle, got %s", bundle.ResourceType)
	}
	if bundle.Type != "collection" {
		t.Errorf("expected collection, got %s", bundle.Type)
	}
	if bundle.Timestamp == nil || !bundle.Timestamp.Equal(now) {
		t.Error("expected timestamp to equal the supplied now")
	}
	if len(bundle.Entry) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(bundle.Entry))
	}
	if bundle.Entry[0].FullURL != "Patient/patient-001" {
		t.Errorf("unexpected fullUrl: %s", bundle.Entry[0].FullURL)
	}
	if bundle.Entry[1].FullURL != "Practitioner/practitioner-dr-house" {
		t.Errorf("unexpected fullUrl: %s", bundle.Entry[1].FullURL)
	}
}

func TestNewCollectionBundlePreservesOrder(t *testing.T) {
	resources := []interface{}{
		map[string]interface{}{"resourceType": "Patient", "id": "a"},
		map[string]interface{}{"resourceType": "Encounter", "id": "b"},
		map[string]interface{}{"resourceType": "Composition", "id": "c"},
	}

	bundle := NewCollectionBundle(resources, time.Now().UTC())

	order := []string{"Patient", "Encounter", "Composition"}
	for i, want := range order {
		var m map[string]interface{}
		if err := json.Unmarshal(bundle.Entry[i].Resource, &m); err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
		if m["resourceType"] != want {
			t.Errorf("entry %d: expected %s, got %v", i, want, m["resourceType"])
		}
	}
}

func TestExtractFullURLFromStruct(t *testing.T) {
	type res struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
	}
	if got := extractFullURL(res{"Encounter", "encounter-1"}); got != "Encounter/encounter-1" {
		t.Errorf("unexpected fullUrl: %s", got)
	}
	if got := extractFullURL(map[string]interface{}{"id": "x"}); got != "" {
		t.Errorf("expected empty fullUrl without resourceType, got %s", got)
	}
}

func TestNotFoundOutcome(t *testing.T) {
	oo := NotFoundOutcome("Encounter", "nope")
	if oo.ResourceType != "OperationOutcome" {
		t.Errorf("unexpected resourceType: %s", oo.ResourceType)
	}
	if len(oo.Issue) != 1 || oo.Issue[0].Code != "not-found" {
		t.Error("expected a single not-found issue")
	}
}

package fhir

import (
	"encoding/json"
	"time"
)

// Bundle represents a FHIR Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type"`
	Timestamp    *time.Time    `json:"timestamp,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// NewCollectionBundle creates a collection Bundle from resources, preserving
// their order. Each resource's fullUrl is derived from its resourceType and id.
func NewCollectionBundle(resources []interface{}, now time.Time) *Bundle {
	entries := make([]BundleEntry, len(resources))
	for i, r := range resources {
		raw, _ := json.Marshal(r)
		entries[i] = BundleEntry{
			FullURL:  extractFullURL(r),
			Resource: raw,
		}
	}
	return &Bundle{
		ResourceType: "Bundle",
		Type:         "collection",
		Timestamp:    &now,
		Entry:        entries,
	}
}

// extractFullURL builds a fullUrl from a resource's resourceType and id.
func extractFullURL(r interface{}) string {
	m, ok := r.(map[string]interface{})
	if !ok {
		data, err := json.Marshal(r)
		if err != nil {
			return ""
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return ""
		}
	}
	rt, _ := m["resourceType"].(string)
	id, _ := m["id"].(string)
	if rt == "" || id == "" {
		return ""
	}
	return FormatReference(rt, id)
}

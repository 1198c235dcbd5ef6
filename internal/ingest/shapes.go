package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Payload is the JSON body accepted by the ingest endpoint. Tracking apps
// export completed and in-progress sessions, optionally bundled with the
// templates they were started from and catalog updates.
type Payload struct {
	Sessions  []SessionExport  `json:"sessions"`
	Templates []TemplateExport `json:"templates,omitempty"`
	Catalog   []CatalogExport  `json:"catalog,omitempty"`
}

// SessionExport mirrors one workout session as exported by a client.
type SessionExport struct {
	ID          string                `json:"id"`
	Date        string                `json:"date"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	Cancelled   bool                  `json:"cancelled,omitempty"`
	Location    string                `json:"location,omitempty"`
	TemplateID  string                `json:"template_id,omitempty"`
	Exercises   map[string]SlotExport `json:"exercises"`
}

// SlotExport is one exercise slot within a session export.
type SlotExport struct {
	Name      string      `json:"name"`
	Equipment string      `json:"equipment,omitempty"`
	BodyPart  string      `json:"body_part,omitempty"`
	Sets      []SetExport `json:"sets"`
}

// SetExport is one logged set.
type SetExport struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// TemplateExport carries a workout template and its per-slot overrides.
type TemplateExport struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Equipment map[string]string `json:"equipment,omitempty"`
	BodyParts map[string]string `json:"body_parts,omitempty"`
}

// CatalogExport is one exercise catalog entry.
type CatalogExport struct {
	Name      string `json:"name"`
	BodyPart  string `json:"body_part,omitempty"`
	Equipment string `json:"equipment,omitempty"`
}

// Parse decodes an ingest payload from r. Unknown fields are ignored so
// newer client exports keep working against older servers.
func Parse(r io.Reader) (*Payload, error) {
	var payload Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding ingest payload: %w", err)
	}
	return &payload, nil
}

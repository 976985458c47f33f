// Package appointments holds the appointment records flowing through the
// scheduler: rows ingested from the practice-management system plus the
// office assignment this service attaches to them.
package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/attunehealth/office-scheduler/internal/office"
)

// Record is one appointment, keyed internally by ID and externally by the
// practice-management system's appointment id. Redelivered change events
// upsert on ExternalID, so ingestion is idempotent.
type Record struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"externalId"`
	ClientID    string    `json:"clientId"`
	ClinicianID string    `json:"clinicianId"`
	// OfficeID is nil until the assignment engine has run for this record.
	OfficeID    *office.ID `json:"officeId,omitempty"`
	StartTime   time.Time  `json:"dateTime"`
	Duration    int        `json:"duration"` // minutes
	SessionType string     `json:"sessionType"`
	// AccessibilityRequired mirrors the accessibility flag from the
	// request or intake record.
	AccessibilityRequired bool      `json:"accessibilityRequired,omitempty"`
	Status                string    `json:"status,omitempty"`
	CreatedAt             time.Time `json:"createdAt,omitempty"`
	UpdatedAt             time.Time `json:"updatedAt,omitempty"`
}

// End returns the exclusive end instant of the appointment interval.
func (r Record) End() time.Time {
	return r.StartTime.Add(time.Duration(r.Duration) * time.Minute)
}

// Assigned reports whether an office has been attached to the record.
func (r Record) Assigned() bool {
	return r.OfficeID != nil && *r.OfficeID != ""
}

// Package schedule implements the office assignment and conflict resolution
// engine. The engine is pure: it receives an immutable snapshot of the
// roster, rules, clinicians, preferences, and bookings, and returns a
// decision for the caller to persist.
package schedule

import (
	"time"

	"github.com/attunehealth/office-scheduler/internal/office"
)

// SessionType categorizes an appointment. It drives both office suitability
// and relocation priority.
type SessionType string

const (
	SessionInPerson   SessionType = "in-person"
	SessionTelehealth SessionType = "telehealth"
	SessionGroup      SessionType = "group"
	SessionFamily     SessionType = "family"
)

// Requirements are the room constraints attached to a request.
type Requirements struct {
	Accessibility   bool       `json:"accessibility"`
	SpecialFeatures []string   `json:"specialFeatures,omitempty"`
	RoomPreference  *office.ID `json:"roomPreference,omitempty"`
}

// Request is one scheduling request: a client, a clinician, and a time
// interval that needs a room.
type Request struct {
	ClientID     string       `json:"clientId"`
	ClinicianID  string       `json:"clinicianId"`
	DateTime     time.Time    `json:"dateTime"`
	Duration     int          `json:"duration"` // minutes, > 0
	SessionType  SessionType  `json:"sessionType"`
	Requirements Requirements `json:"requirements"`
}

// Start returns the inclusive start instant of the requested interval.
func (r Request) Start() time.Time { return r.DateTime }

// End returns the exclusive end instant of the requested interval.
func (r Request) End() time.Time {
	return r.DateTime.Add(time.Duration(r.Duration) * time.Minute)
}

// Validate checks the request fields that the engine cannot default.
func (r Request) Validate() error {
	if r.ClientID == "" {
		return ErrMissingClientID
	}
	if r.ClinicianID == "" {
		return ErrMissingClinicianID
	}
	if r.Duration <= 0 {
		return ErrInvalidDuration
	}
	if r.DateTime.IsZero() {
		return ErrMissingDateTime
	}
	return nil
}

// ResolutionType says what happens to a booking involved in a conflict.
type ResolutionType string

const (
	// ResolutionRelocate moves the existing booking to another office.
	ResolutionRelocate ResolutionType = "relocate"
	// ResolutionCannotRelocate means the existing booking stays put and
	// the incoming request must yield.
	ResolutionCannotRelocate ResolutionType = "cannot-relocate"
)

// Resolution describes the outcome decided for one conflict.
type Resolution struct {
	Type   ResolutionType `json:"type"`
	Reason string         `json:"reason"`
	// NewOfficeID is set only for relocations.
	NewOfficeID *office.ID `json:"newOfficeId,omitempty"`
}

// Conflict is one detected double-booking.
type Conflict struct {
	OfficeID office.ID `json:"officeId"`
	// ExistingBooking is the booking the request collides with.
	ExistingBooking *Request   `json:"existingBooking,omitempty"`
	Resolution      Resolution `json:"resolution"`
}

// Result is the engine's decision for one request. Failure outcomes
// (validation, no office available) are represented here, not as errors;
// errors are reserved for collaborator I/O failures.
type Result struct {
	Success  bool       `json:"success"`
	OfficeID *office.ID `json:"officeId,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Error    string     `json:"error,omitempty"`
	// Notes is the human-readable rationale for the chosen office.
	Notes string `json:"notes,omitempty"`
	// EvaluationLog records every rule and heuristic considered, in
	// order, for audit and debugging.
	EvaluationLog []string `json:"evaluationLog,omitempty"`
}

// Bookings maps canonical office ids to the bookings already holding that
// office inside the evaluation window.
type Bookings map[office.ID][]Request

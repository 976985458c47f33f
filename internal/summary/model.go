// Package summary builds the end-of-day operations report: appointment
// counts, office utilization, and alerts that need front-desk attention.
package summary

import (
	"time"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/schedule"
)

// Severity ranks an alert for the front desk.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Alert types surfaced in the daily summary.
const (
	AlertCapacity      = "capacity"
	AlertUnresolved    = "unresolved-conflict"
	AlertAccessibility = "accessibility"
	AlertUnassigned    = "unassigned-appointment"
)

// Alert flags a condition that needs attention before the day starts.
type Alert struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// OfficeUtilization reports slot usage for one office over a business day.
type OfficeUtilization struct {
	TotalSlots  int `json:"totalSlots"`
	BookedSlots int `json:"bookedSlots"`
	// SpecialNotes carries office-level remarks, e.g. accessibility or the
	// roster notes field.
	SpecialNotes []string `json:"specialNotes,omitempty"`
}

// Rate returns booked/total as a ratio in [0, 1]. Zero capacity reads as
// fully idle rather than dividing by zero.
func (u OfficeUtilization) Rate() float64 {
	if u.TotalSlots <= 0 {
		return 0
	}
	return float64(u.BookedSlots) / float64(u.TotalSlots)
}

// DailySummary is the report for one practice day. Appointments carries the
// resolved schedule itself, ordered by start time, so downstream consumers
// see the same day the counts describe.
type DailySummary struct {
	Date              string                          `json:"date"` // YYYY-MM-DD in practice time
	Appointments      []appointments.Record           `json:"appointments"`
	TotalAppointments int                             `json:"totalAppointments"`
	AssignedCount     int                             `json:"assignedCount"`
	UnassignedCount   int                             `json:"unassignedCount"`
	Conflicts         []schedule.Conflict             `json:"conflicts,omitempty"`
	OfficeUtilization map[office.ID]OfficeUtilization `json:"officeUtilization"`
	Alerts            []Alert                         `json:"alerts,omitempty"`
	GeneratedAt       time.Time                       `json:"generatedAt"`
}

// Package practice provides practice-wide configuration and the business
// calendar used for utilization math.
package practice

import (
	"time"

	"github.com/attunehealth/office-scheduler/internal/office"
)

// NotificationPrefs holds notification preferences for the practice.
type NotificationPrefs struct {
	EmailEnabled    bool     `json:"email_enabled"`
	EmailRecipients []string `json:"email_recipients,omitempty"`
	// DailySummary controls whether the end-of-day summary email goes out.
	DailySummary bool `json:"daily_summary"`
}

// Config holds practice-wide scheduling configuration.
type Config struct {
	PracticeID string `json:"practice_id"`
	Name       string `json:"name"`
	Timezone   string `json:"timezone"` // e.g., "America/New_York"
	// DayStart and DayEnd bound the business-hours window, "15:04" format.
	DayStart string `json:"day_start"`
	DayEnd   string `json:"day_end"`
	// SlotMinutes is the fixed scheduling slot length used for utilization.
	SlotMinutes int `json:"slot_minutes"`
	// DefaultOfficeID is the fallback canonical id for unparseable office
	// identifiers.
	DefaultOfficeID office.ID `json:"default_office_id"`
	// VirtualOfficeID is reserved for telehealth sessions.
	VirtualOfficeID office.ID `json:"virtual_office_id"`
	// UtilizationAlertThreshold is the booked/total ratio above which a
	// capacity alert fires.
	UtilizationAlertThreshold float64           `json:"utilization_alert_threshold"`
	Notifications             NotificationPrefs `json:"notifications"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig(practiceID string) *Config {
	return &Config{
		PracticeID:                practiceID,
		Name:                      "Therapy Practice",
		Timezone:                  "America/New_York",
		DayStart:                  "08:00",
		DayEnd:                    "18:00",
		SlotMinutes:               60,
		DefaultOfficeID:           office.DefaultID,
		VirtualOfficeID:           office.Virtual,
		UtilizationAlertThreshold: 0.9,
		Notifications: NotificationPrefs{
			EmailEnabled: false,
			DailySummary: true,
		},
	}
}

// Location resolves the practice timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlotsPerDay returns the number of fixed-length slots in the business-hours
// window. Zero when the window or slot length is misconfigured.
func (c *Config) SlotsPerDay() int {
	start, err1 := time.Parse("15:04", c.DayStart)
	end, err2 := time.Parse("15:04", c.DayEnd)
	if err1 != nil || err2 != nil || c.SlotMinutes <= 0 {
		return 0
	}
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if endMin <= startMin {
		return 0
	}
	return (endMin - startMin) / c.SlotMinutes
}

// DayWindow returns the [00:00, 24:00) bounds of the given civil day in the
// practice timezone.
func (c *Config) DayWindow(date time.Time) (time.Time, time.Time) {
	loc := c.Location()
	local := date.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// SourceConfig configures the practice-management API client.
type SourceConfig struct {
	BaseURL    string
	APIKey     string
	RetryCount int
}

// Source fetches appointment records from the external practice-management
// API and normalizes them into Records.
type Source struct {
	client *resty.Client
	norm   office.Normalizer
	logger *logging.Logger
}

// NewSource creates an appointment source client.
func NewSource(cfg SourceConfig, norm office.Normalizer, logger *logging.Logger) *Source {
	if logger == nil {
		logger = logging.Default()
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetTimeout(15 * time.Second)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &Source{client: client, norm: norm, logger: logger}
}

// ExternalAppointment mirrors the third-party wire format, which carries
// inconsistent field names and free-form office strings. The same shape
// arrives over the polling API and in queued change events.
type ExternalAppointment struct {
	AppointmentID  string `json:"appointment_id"`
	PatientID      string `json:"patient_id"`
	PractitionerID string `json:"practitioner_id"`
	Office         string `json:"office"`
	StartsAt       string `json:"starts_at"` // RFC 3339
	Minutes        int    `json:"minutes"`
	Kind           string `json:"kind"`
	Wheelchair     bool   `json:"wheelchair_access"`
	Status         string `json:"status"`
}

type dayResponse struct {
	Appointments []ExternalAppointment `json:"appointments"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (e *errorResponse) Error() string { return e.Message }

// GetAppointmentsForDay fetches the day's appointments from the external
// API and converts them into normalized Records. Records that cannot be
// interpreted (bad timestamps, non-positive durations) are skipped with a
// warning rather than failing the whole fetch.
func (s *Source) GetAppointmentsForDay(ctx context.Context, date time.Time) ([]Record, error) {
	out := &dayResponse{}
	httpErr := &errorResponse{}
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("date", date.Format(time.DateOnly)).
		SetResult(out).
		SetError(httpErr).
		Get("/v1/appointments")
	if err != nil {
		return nil, fmt.Errorf("appointments: fetch day %s: %w", date.Format(time.DateOnly), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("appointments: fetch day %s: status %d: %s",
			date.Format(time.DateOnly), resp.StatusCode(), httpErr.Message)
	}

	records := make([]Record, 0, len(out.Appointments))
	for _, ext := range out.Appointments {
		rec, err := NormalizeExternal(ext, s.norm)
		if err != nil {
			s.logger.Warn("appointments: skipping malformed record",
				"external_id", ext.AppointmentID, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// NormalizeExternal converts one external wire record into a Record,
// canonicalizing the office id and session kind.
func NormalizeExternal(ext ExternalAppointment, norm office.Normalizer) (Record, error) {
	if ext.AppointmentID == "" {
		return Record{}, fmt.Errorf("missing appointment id")
	}
	start, err := time.Parse(time.RFC3339, ext.StartsAt)
	if err != nil {
		return Record{}, fmt.Errorf("bad start time %q: %w", ext.StartsAt, err)
	}
	if ext.Minutes <= 0 {
		return Record{}, fmt.Errorf("non-positive duration %d", ext.Minutes)
	}

	rec := Record{
		ExternalID:            ext.AppointmentID,
		ClientID:              ext.PatientID,
		ClinicianID:           ext.PractitionerID,
		StartTime:             start,
		Duration:              ext.Minutes,
		SessionType:           normalizeSessionKind(ext.Kind),
		AccessibilityRequired: ext.Wheelchair,
		Status:                ext.Status,
	}
	if ext.Office != "" {
		id := norm.Normalize(ext.Office)
		rec.OfficeID = &id
	}
	return rec, nil
}

// normalizeSessionKind maps the external system's session labels onto our
// session types. Unknown labels pass through unchanged; the priority table
// treats them as mid-priority.
func normalizeSessionKind(kind string) string {
	switch kind {
	case "office_visit", "in_person", "in-person":
		return "in-person"
	case "video", "virtual", "telehealth":
		return "telehealth"
	case "group", "group_session":
		return "group"
	case "family", "family_session":
		return "family"
	default:
		return kind
	}
}

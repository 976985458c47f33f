package summary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/observability/metrics"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/practice"
	"github.com/attunehealth/office-scheduler/internal/schedule"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

var summaryTracer = otel.Tracer("scheduler.internal.summary")

// ConfigSource fetches practice configuration.
type ConfigSource interface {
	Get(ctx context.Context, practiceID string) (*practice.Config, error)
}

// AppointmentSource reads and updates appointment records for a day.
type AppointmentSource interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]appointments.Record, error)
	AssignOffice(ctx context.Context, externalID string, officeID office.ID) error
}

// Service generates daily scheduling summaries.
type Service struct {
	practiceID string
	configs    ConfigSource
	records    AppointmentSource
	loader     schedule.SnapshotLoader
	assigner   *schedule.Assigner
	resolver   *schedule.Resolver
	logger     *logging.Logger
	metrics    *metrics.SchedulingMetrics
}

// ServiceConfig wires the summary service.
type ServiceConfig struct {
	PracticeID string
	Configs    ConfigSource
	Records    AppointmentSource
	Loader     schedule.SnapshotLoader
	Assigner   *schedule.Assigner
	Resolver   *schedule.Resolver
	Logger     *logging.Logger
	Metrics    *metrics.SchedulingMetrics
}

// NewService creates a summary service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		practiceID: cfg.PracticeID,
		configs:    cfg.Configs,
		records:    cfg.Records,
		loader:     cfg.Loader,
		assigner:   cfg.Assigner,
		resolver:   cfg.Resolver,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// GenerateDailySummary builds the report for the civil day containing date
// in the practice timezone. Unassigned appointments are run through the
// assignment engine first so the report reflects the schedule the practice
// will actually operate.
func (s *Service) GenerateDailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	ctx, span := summaryTracer.Start(ctx, "summary.generate_daily")
	defer span.End()
	started := time.Now()

	cfg, err := s.configs.Get(ctx, s.practiceID)
	if err != nil {
		return nil, fmt.Errorf("summary: load practice config: %w", err)
	}

	dayStart, dayEnd := cfg.DayWindow(date)
	span.SetAttributes(attribute.String("summary.date", dayStart.Format("2006-01-02")))

	recs, err := s.records.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("summary: list appointments: %w", err)
	}

	snap, err := s.loader.Load(ctx, schedule.Window{Start: dayStart, End: dayEnd})
	if err != nil {
		return nil, fmt.Errorf("summary: load snapshot: %w", err)
	}

	out := &DailySummary{
		Date:              dayStart.Format("2006-01-02"),
		TotalAppointments: len(recs),
		OfficeUtilization: make(map[office.ID]OfficeUtilization),
		GeneratedAt:       time.Now().UTC(),
	}

	recs = s.assignPending(ctx, snap, recs, out)
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].StartTime.Equal(recs[j].StartTime) {
			return recs[i].StartTime.Before(recs[j].StartTime)
		}
		return recs[i].ExternalID < recs[j].ExternalID
	})
	out.Appointments = recs

	byOffice := make(map[office.ID][]appointments.Record)
	for _, rec := range recs {
		if rec.Assigned() {
			out.AssignedCount++
			byOffice[*rec.OfficeID] = append(byOffice[*rec.OfficeID], rec)
		} else {
			out.UnassignedCount++
			out.Alerts = append(out.Alerts, Alert{
				Type:     AlertUnassigned,
				Message:  fmt.Sprintf("appointment %s at %s has no office", rec.ExternalID, rec.StartTime.In(cfg.Location()).Format("15:04")),
				Severity: SeverityMedium,
			})
		}
	}

	s.collectConflicts(snap, byOffice, out)
	s.collectUtilization(cfg, snap, byOffice, out)
	s.collectAccessibilityAlerts(snap, byOffice, out)

	s.metrics.ObserveSummaryDuration(time.Since(started).Seconds())
	s.logger.Info("daily summary generated",
		"date", out.Date,
		"appointments", out.TotalAppointments,
		"conflicts", len(out.Conflicts),
		"alerts", len(out.Alerts),
	)
	return out, nil
}

// assignPending runs unassigned records through the engine and persists the
// assignments that succeed. Records the engine cannot place stay unassigned
// and surface as alerts downstream.
func (s *Service) assignPending(ctx context.Context, snap *schedule.Snapshot, recs []appointments.Record, out *DailySummary) []appointments.Record {
	if s.assigner == nil {
		return recs
	}
	for i, rec := range recs {
		if rec.Assigned() {
			continue
		}
		result := s.assigner.Evaluate(snap, schedule.RequestFromRecord(rec))
		if !result.Success || result.OfficeID == nil {
			continue
		}
		if err := s.records.AssignOffice(ctx, rec.ExternalID, *result.OfficeID); err != nil {
			s.logger.Error("failed to persist assignment", "error", err, "external_id", rec.ExternalID)
			continue
		}
		recs[i].OfficeID = result.OfficeID
		snap.Bookings[*result.OfficeID] = append(snap.Bookings[*result.OfficeID], schedule.RequestFromRecord(recs[i]))
		out.Conflicts = append(out.Conflicts, result.Conflicts...)
	}
	return recs
}

// sortedOfficeIDs fixes the iteration order so conflicts and alerts come out
// the same on every run over the same day.
func sortedOfficeIDs(byOffice map[office.ID][]appointments.Record) []office.ID {
	ids := make([]office.ID, 0, len(byOffice))
	for id := range byOffice {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// collectConflicts scans each office's bookings pairwise for overlaps and
// resolves them the same way live assignment would.
func (s *Service) collectConflicts(snap *schedule.Snapshot, byOffice map[office.ID][]appointments.Record, out *DailySummary) {
	for _, officeID := range sortedOfficeIDs(byOffice) {
		officeRecs := byOffice[officeID]
		for i := 0; i < len(officeRecs); i++ {
			for j := i + 1; j < len(officeRecs); j++ {
				a, b := officeRecs[i], officeRecs[j]
				if !schedule.Overlaps(a.StartTime, a.End(), b.StartTime, b.End()) {
					continue
				}
				existing := schedule.RequestFromRecord(a)
				incoming := schedule.RequestFromRecord(b)
				resolution := s.resolver.Resolve(existing, incoming, snap.Offices, snap.Bookings)
				out.Conflicts = append(out.Conflicts, schedule.Conflict{
					OfficeID:        officeID,
					ExistingBooking: &existing,
					Resolution:      resolution,
				})
				if resolution.Type == schedule.ResolutionCannotRelocate {
					out.Alerts = append(out.Alerts, Alert{
						Type:     AlertUnresolved,
						Message:  fmt.Sprintf("double booking in %s at %s cannot be resolved automatically", officeID, a.StartTime.UTC().Format("15:04")),
						Severity: SeverityHigh,
					})
				}
			}
		}
	}
}

// collectUtilization computes slot usage per in-service office and raises
// capacity alerts above the configured threshold.
func (s *Service) collectUtilization(cfg *practice.Config, snap *schedule.Snapshot, byOffice map[office.ID][]appointments.Record, out *DailySummary) {
	total := cfg.SlotsPerDay()
	for _, o := range office.InServiceOnly(snap.Offices) {
		booked := len(byOffice[o.ID])
		if booked > total {
			booked = total
		}
		util := OfficeUtilization{TotalSlots: total, BookedSlots: booked}
		if o.Accessible {
			util.SpecialNotes = append(util.SpecialNotes, "accessible")
		}
		if o.Notes != "" {
			util.SpecialNotes = append(util.SpecialNotes, o.Notes)
		}
		out.OfficeUtilization[o.ID] = util

		if total > 0 && util.Rate() > cfg.UtilizationAlertThreshold {
			out.Alerts = append(out.Alerts, Alert{
				Type:     AlertCapacity,
				Message:  fmt.Sprintf("office %s at %.0f%% utilization", o.ID, util.Rate()*100),
				Severity: SeverityMedium,
			})
		}
	}
}

// collectAccessibilityAlerts flags appointments that require an accessible
// room but landed somewhere else.
func (s *Service) collectAccessibilityAlerts(snap *schedule.Snapshot, byOffice map[office.ID][]appointments.Record, out *DailySummary) {
	for _, officeID := range sortedOfficeIDs(byOffice) {
		officeRecs := byOffice[officeID]
		o, found := office.Find(snap.Offices, officeID)
		for _, rec := range officeRecs {
			needs := rec.AccessibilityRequired
			if pref, ok := snap.Preferences[rec.ClientID]; ok && pref.RequiresAccessibleOffice() {
				needs = true
			}
			if needs && (!found || !o.Accessible) {
				out.Alerts = append(out.Alerts, Alert{
					Type:     AlertAccessibility,
					Message:  fmt.Sprintf("appointment %s needs an accessible room but is in %s", rec.ExternalID, officeID),
					Severity: SeverityHigh,
				})
			}
		}
	}
}

// Package summaryworker generates and delivers the daily summary on a
// schedule.
package summaryworker

import (
	"context"
	"fmt"
	"time"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/notify"
	"github.com/attunehealth/office-scheduler/internal/practice"
	"github.com/attunehealth/office-scheduler/internal/summary"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// ConfigSource fetches practice configuration.
type ConfigSource interface {
	Get(ctx context.Context, practiceID string) (*practice.Config, error)
}

// AppointmentFetcher pulls the day's appointments from the
// practice-management API so the summary runs against fresh data even when
// change events were missed.
type AppointmentFetcher interface {
	GetAppointmentsForDay(ctx context.Context, date time.Time) ([]appointments.Record, error)
}

// RecordSink persists fetched appointment records.
type RecordSink interface {
	UpsertExternal(ctx context.Context, r *appointments.Record) error
}

// Worker runs the daily summary on a fixed interval.
type Worker struct {
	practiceID string
	configs    ConfigSource
	summaries  *summary.Service
	notifier   *notify.Service
	fetcher    AppointmentFetcher
	sink       RecordSink
	interval   time.Duration
	logger     *logging.Logger
}

// Config wires the summary worker.
type Config struct {
	PracticeID string
	Configs    ConfigSource
	Summaries  *summary.Service
	Notifier   *notify.Service
	// Fetcher and Sink are optional; when both are set, the day's
	// appointments are re-pulled from the practice-management API before
	// the report is generated.
	Fetcher AppointmentFetcher
	Sink    RecordSink
	// Interval between runs; defaults to 24h.
	Interval time.Duration
	Logger   *logging.Logger
}

// New creates a summary worker.
func New(cfg Config) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &Worker{
		practiceID: cfg.PracticeID,
		configs:    cfg.Configs,
		summaries:  cfg.Summaries,
		notifier:   cfg.Notifier,
		fetcher:    cfg.Fetcher,
		sink:       cfg.Sink,
		interval:   cfg.Interval,
		logger:     cfg.Logger,
	}
}

// Run executes once immediately, then on every interval tick until ctx is
// canceled. A failed run is logged and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("summary worker started", "interval", w.interval.String())

	if err := w.RunOnce(ctx); err != nil {
		w.logger.Error("summary run failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("summary worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Error("summary run failed", "error", err)
			}
		}
	}
}

// RunOnce generates today's summary and delivers it per the practice's
// notification preferences.
func (w *Worker) RunOnce(ctx context.Context) error {
	cfg, err := w.configs.Get(ctx, w.practiceID)
	if err != nil {
		return fmt.Errorf("summaryworker: load practice config: %w", err)
	}

	if err := w.syncAppointments(ctx); err != nil {
		// The cached local records still produce a useful report.
		w.logger.Warn("appointment sync failed, summarizing local records", "error", err)
	}

	report, err := w.summaries.GenerateDailySummary(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("summaryworker: generate summary: %w", err)
	}

	if w.notifier != nil {
		if err := w.notifier.SendDailySummary(ctx, cfg.Notifications, report); err != nil {
			return fmt.Errorf("summaryworker: deliver summary: %w", err)
		}
	}

	w.logger.Info("daily summary delivered",
		"date", report.Date,
		"appointments", report.TotalAppointments,
		"alerts", len(report.Alerts),
	)
	return nil
}

func (w *Worker) syncAppointments(ctx context.Context) error {
	if w.fetcher == nil || w.sink == nil {
		return nil
	}
	recs, err := w.fetcher.GetAppointmentsForDay(ctx, time.Now())
	if err != nil {
		return err
	}
	for i := range recs {
		if err := w.sink.UpsertExternal(ctx, &recs[i]); err != nil {
			return err
		}
	}
	w.logger.Info("appointments synced from practice-management API", "count", len(recs))
	return nil
}

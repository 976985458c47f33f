// Package ingest consumes appointment change events from the
// practice-management system and keeps the local appointment store in sync.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// ChangeEvent is one queued appointment change. The appointment payload is
// the same wire shape the polling API returns.
type ChangeEvent struct {
	EventType   string                           `json:"event_type"` // created, updated, cancelled
	Appointment appointments.ExternalAppointment `json:"appointment"`
}

// RecordStore persists normalized appointment records.
type RecordStore interface {
	UpsertExternal(ctx context.Context, r *appointments.Record) error
}

// Worker drains the change-event queue. Events upsert on the external
// appointment id, so redeliveries and out-of-order duplicates are safe to
// apply twice.
type Worker struct {
	queue        queueClient
	store        RecordStore
	norm         office.Normalizer
	logger       *logging.Logger
	maxMessages  int
	waitSeconds  int
	errorBackoff time.Duration
}

// Config wires the ingest worker.
type Config struct {
	Queue       queueClient
	Store       RecordStore
	Normalizer  office.Normalizer
	Logger      *logging.Logger
	MaxMessages int
	WaitSeconds int
}

// New creates an ingest worker.
func New(cfg Config) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 10
	}
	if cfg.WaitSeconds <= 0 {
		cfg.WaitSeconds = 20
	}
	return &Worker{
		queue:        cfg.Queue,
		store:        cfg.Store,
		norm:         cfg.Normalizer,
		logger:       cfg.Logger,
		maxMessages:  cfg.MaxMessages,
		waitSeconds:  cfg.WaitSeconds,
		errorBackoff: 5 * time.Second,
	}
}

// Run polls the queue until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("ingest worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ingest worker stopping")
			return ctx.Err()
		default:
		}

		if err := w.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("ingest poll failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.errorBackoff):
			}
		}
	}
}

// poll receives one batch and processes it. Messages that fail to apply
// stay on the queue for redelivery.
func (w *Worker) poll(ctx context.Context) error {
	messages, err := w.queue.Receive(ctx, w.maxMessages, w.waitSeconds)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := w.handle(ctx, msg.Body); err != nil {
			w.logger.Error("failed to apply change event", "error", err, "message_id", msg.ID)
			continue
		}
		if err := w.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
			w.logger.Error("failed to delete message", "error", err, "message_id", msg.ID)
		}
	}
	return nil
}

func (w *Worker) handle(ctx context.Context, body string) error {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return fmt.Errorf("ingest: decode event: %w", err)
	}

	rec, err := appointments.NormalizeExternal(event.Appointment, w.norm)
	if err != nil {
		return fmt.Errorf("ingest: normalize event: %w", err)
	}
	if event.EventType == "cancelled" {
		rec.Status = "cancelled"
	}

	if err := w.store.UpsertExternal(ctx, &rec); err != nil {
		return fmt.Errorf("ingest: upsert %s: %w", rec.ExternalID, err)
	}

	w.logger.Info("change event applied",
		"event_type", event.EventType,
		"external_id", rec.ExternalID,
		"office_id", officeOrNone(rec.OfficeID),
	)
	return nil
}

func officeOrNone(id *office.ID) string {
	if id == nil {
		return "none"
	}
	return string(*id)
}

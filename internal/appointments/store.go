package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/attunehealth/office-scheduler/internal/office"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for appointment records.
type Store struct {
	db   DB
	norm office.Normalizer
}

// NewStore creates an appointment store.
func NewStore(db DB, norm office.Normalizer) *Store {
	return &Store{db: db, norm: norm}
}

const recordColumns = `id, external_id, client_id, clinician_id, office_id, start_time, duration_minutes, session_type, accessibility_required, status, created_at, updated_at`

// ListBetween returns appointments with start_time in [start, end), ordered
// by start time then external id for deterministic evaluation.
func (s *Store) ListBetween(ctx context.Context, start, end time.Time) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+recordColumns+`
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC, external_id ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("appointments: list between: %w", err)
	}
	defer rows.Close()
	return s.scanRecords(rows)
}

// UpsertExternal inserts or refreshes a record ingested from the
// appointment source, keyed by external id so redelivered events are
// harmless. The existing office assignment is preserved on update.
func (s *Store) UpsertExternal(ctx context.Context, r *Record) error {
	if r.ExternalID == "" {
		return fmt.Errorf("appointments: external id required")
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	r.UpdatedAt = now
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}

	var officeID *string
	if r.OfficeID != nil {
		normalized := string(s.norm.Normalize(string(*r.OfficeID)))
		officeID = &normalized
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO appointments (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (external_id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			clinician_id = EXCLUDED.clinician_id,
			start_time = EXCLUDED.start_time,
			duration_minutes = EXCLUDED.duration_minutes,
			session_type = EXCLUDED.session_type,
			accessibility_required = EXCLUDED.accessibility_required,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		r.ID, r.ExternalID, r.ClientID, r.ClinicianID, officeID,
		r.StartTime, r.Duration, r.SessionType, r.AccessibilityRequired,
		r.Status, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: upsert %s: %w", r.ExternalID, err)
	}
	return nil
}

// AssignOffice records the office chosen for an appointment.
func (s *Store) AssignOffice(ctx context.Context, externalID string, officeID office.ID) error {
	normalized := string(s.norm.Normalize(string(officeID)))
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments
		SET office_id = $1, updated_at = $2
		WHERE external_id = $3`,
		normalized, time.Now().UTC(), externalID)
	if err != nil {
		return fmt.Errorf("appointments: assign office %s: %w", externalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointments: assign office %s: no such appointment", externalID)
	}
	return nil
}

func (s *Store) scanRecords(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var (
			r         Record
			rawOffice *string
		)
		if err := rows.Scan(&r.ID, &r.ExternalID, &r.ClientID, &r.ClinicianID, &rawOffice,
			&r.StartTime, &r.Duration, &r.SessionType, &r.AccessibilityRequired,
			&r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		if rawOffice != nil && *rawOffice != "" {
			normalized := s.norm.Normalize(*rawOffice)
			r.OfficeID = &normalized
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return out, nil
}

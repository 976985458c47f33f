package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/attunehealth/office-scheduler/internal/office"
)

func TestUpsertExternalRequiresExternalID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock, office.NewNormalizer(""))
	if err := store.UpsertExternal(context.Background(), &Record{}); err == nil {
		t.Error("expected error for missing external id")
	}
}

func TestUpsertExternalAssignsIDAndTimestamps(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewStore(mock, office.NewNormalizer(""))
	rec := &Record{
		ExternalID:  "ext-9",
		ClientID:    "cl-1",
		ClinicianID: "prac-1",
		StartTime:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Duration:    60,
		SessionType: "in-person",
	}
	if err := store.UpsertExternal(context.Background(), rec); err != nil {
		t.Fatalf("UpsertExternal returned error: %v", err)
	}
	if rec.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated id")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAssignOfficeNormalizesAndChecksRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("UPDATE appointments").
		WithArgs("B-1", pgxmock.AnyArg(), "ext-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE appointments").
		WithArgs("B-1", pgxmock.AnyArg(), "ext-missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewStore(mock, office.NewNormalizer(""))
	if err := store.AssignOffice(context.Background(), "ext-1", "b1"); err != nil {
		t.Fatalf("AssignOffice returned error: %v", err)
	}
	if err := store.AssignOffice(context.Background(), "ext-missing", "b1"); err == nil {
		t.Error("expected error when no row is updated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListBetween(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	officeID := "C-1"
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "external_id", "client_id", "clinician_id", "office_id", "start_time", "duration_minutes", "session_type", "accessibility_required", "status", "created_at", "updated_at"}).
		AddRow(uuid.New(), "ext-1", "cl-1", "prac-1", &officeID, now, 60, "in-person", false, "booked", now, now).
		AddRow(uuid.New(), "ext-2", "cl-2", "prac-2", (*string)(nil), now.Add(time.Hour), 30, "telehealth", false, "booked", now, now)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(now, now.Add(24*time.Hour)).
		WillReturnRows(rows)

	store := NewStore(mock, office.NewNormalizer(""))
	records, err := store.ListBetween(context.Background(), now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListBetween returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Assigned() || *records[0].OfficeID != "C-1" {
		t.Errorf("expected first record assigned to C-1, got %+v", records[0])
	}
	if records[1].Assigned() {
		t.Error("expected second record unassigned")
	}
	if got := records[0].End(); !got.Equal(now.Add(time.Hour)) {
		t.Errorf("expected End = start+60m, got %s", got)
	}
}

package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/practice"
	"github.com/attunehealth/office-scheduler/internal/summary"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func sampleReport() *summary.DailySummary {
	b1 := office.ID("B-1")
	return &summary.DailySummary{
		Date: "2026-03-10",
		Appointments: []appointments.Record{
			{
				ExternalID:  "apt-9am",
				ClientID:    "client-1",
				ClinicianID: "clin-1",
				OfficeID:    &b1,
				StartTime:   time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
				Duration:    60,
				SessionType: "in-person",
			},
			{
				ExternalID:  "apt-10am",
				ClientID:    "client-2",
				ClinicianID: "clin-2",
				StartTime:   time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
				Duration:    60,
				SessionType: "telehealth",
			},
		},
		TotalAppointments: 12,
		AssignedCount:     11,
		UnassignedCount:   1,
		OfficeUtilization: map[office.ID]summary.OfficeUtilization{
			"B-1": {TotalSlots: 10, BookedSlots: 10},
			"B-2": {TotalSlots: 10, BookedSlots: 8},
		},
		Alerts: []summary.Alert{
			{Type: summary.AlertCapacity, Message: "office B-1 at 100% utilization", Severity: summary.SeverityMedium},
		},
	}
}

func enabledPrefs(recipients ...string) practice.NotificationPrefs {
	return practice.NotificationPrefs{
		EmailEnabled:    true,
		DailySummary:    true,
		EmailRecipients: recipients,
	}
}

func TestSendDailySummary(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, logging.Default())

	err := svc.SendDailySummary(context.Background(), enabledPrefs("frontdesk@example.com", "ops@example.com"), sampleReport())
	if err != nil {
		t.Fatalf("SendDailySummary: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}

	msg := sender.sent[0]
	if msg.To != "frontdesk@example.com" {
		t.Errorf("to = %s", msg.To)
	}
	if !strings.Contains(msg.Subject, "2026-03-10") {
		t.Errorf("subject should carry the date: %q", msg.Subject)
	}
	for _, want := range []string{"12 total", "B-1", "10/10", "100% utilization"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("text body missing %q:\n%s", want, msg.Body)
		}
	}
	for _, want := range []string{"09:00", "apt-9am", "10:00", "apt-10am", "unassigned"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("text body missing schedule entry %q:\n%s", want, msg.Body)
		}
	}
	if !strings.Contains(msg.HTML, "<table") || !strings.Contains(msg.HTML, "B-2") {
		t.Errorf("html body should render the utilization table:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "apt-9am") {
		t.Errorf("html body should render the schedule:\n%s", msg.HTML)
	}
}

func TestSendDailySummaryDisabled(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, logging.Default())

	prefs := enabledPrefs("frontdesk@example.com")
	prefs.DailySummary = false
	if err := svc.SendDailySummary(context.Background(), prefs, sampleReport()); err != nil {
		t.Fatalf("disabled summary should be a no-op: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("disabled summary must not send")
	}
}

func TestSendDailySummaryNoSender(t *testing.T) {
	svc := NewService(nil, logging.Default())
	if err := svc.SendDailySummary(context.Background(), enabledPrefs("x@example.com"), sampleReport()); err != nil {
		t.Fatalf("missing sender should degrade to a no-op: %v", err)
	}
}

func TestSendDailySummaryContinuesOnError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewService(sender, logging.Default())

	err := svc.SendDailySummary(context.Background(), enabledPrefs("a@example.com", "b@example.com"), sampleReport())
	if err == nil {
		t.Fatal("send failures should surface")
	}
	if len(sender.sent) != 2 {
		t.Errorf("all recipients should be attempted, got %d", len(sender.sent))
	}
}

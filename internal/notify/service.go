package notify

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/attunehealth/office-scheduler/internal/practice"
	"github.com/attunehealth/office-scheduler/internal/summary"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Service formats and delivers scheduling notifications.
type Service struct {
	sender EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender disables
// delivery; SendDailySummary then logs and returns nil.
func NewService(sender EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, logger: logger}
}

var summaryHTML = template.Must(template.New("daily_summary").Parse(`<h2>Daily schedule summary for {{.Date}}</h2>
<p>{{.TotalAppointments}} appointments ({{.AssignedCount}} assigned, {{.UnassignedCount}} unassigned), {{len .Conflicts}} conflicts.</p>
{{if .Schedule}}<h3>Schedule</h3>
<table border="1" cellpadding="4">
<tr><th>Time</th><th>Appointment</th><th>Clinician</th><th>Session</th><th>Office</th></tr>
{{range .Schedule}}<tr><td>{{.Time}}</td><td>{{.ExternalID}}</td><td>{{.Clinician}}</td><td>{{.Session}}</td><td>{{.Office}}</td></tr>
{{end}}</table>{{end}}
<h3>Office utilization</h3>
<table border="1" cellpadding="4">
<tr><th>Office</th><th>Booked</th><th>Total</th></tr>
{{range .Utilization}}<tr><td>{{.ID}}</td><td>{{.BookedSlots}}</td><td>{{.TotalSlots}}</td></tr>
{{end}}</table>
{{if .Alerts}}<h3>Alerts</h3>
<ul>
{{range .Alerts}}<li><strong>{{.Severity}}</strong> [{{.Type}}] {{.Message}}</li>
{{end}}</ul>{{end}}`))

type utilizationRow struct {
	ID string
	summary.OfficeUtilization
}

type scheduleRow struct {
	Time       string
	ExternalID string
	Clinician  string
	Session    string
	Office     string
}

type summaryEmailData struct {
	*summary.DailySummary
	Schedule    []scheduleRow
	Utilization []utilizationRow
}

// SendDailySummary renders the report and emails it to every configured
// recipient. A failure to reach one recipient does not stop the rest; the
// first error is returned after all sends are attempted.
func (s *Service) SendDailySummary(ctx context.Context, prefs practice.NotificationPrefs, report *summary.DailySummary) error {
	if !prefs.EmailEnabled || !prefs.DailySummary {
		s.logger.Info("daily summary email disabled", "date", report.Date)
		return nil
	}
	if s.sender == nil {
		s.logger.Warn("daily summary email enabled but no sender configured", "date", report.Date)
		return nil
	}
	if len(prefs.EmailRecipients) == 0 {
		s.logger.Warn("daily summary email enabled but no recipients configured", "date", report.Date)
		return nil
	}

	msg := EmailMessage{
		Subject: fmt.Sprintf("Daily schedule summary for %s", report.Date),
		Body:    renderSummaryText(report),
		HTML:    renderSummaryHTML(report),
	}

	var firstErr error
	for _, to := range prefs.EmailRecipients {
		msg.To = to
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Error("daily summary send failed", "error", err, "to", to)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func scheduleRows(report *summary.DailySummary) []scheduleRow {
	rows := make([]scheduleRow, 0, len(report.Appointments))
	for _, rec := range report.Appointments {
		row := scheduleRow{
			Time:       rec.StartTime.Format("15:04"),
			ExternalID: rec.ExternalID,
			Clinician:  rec.ClinicianID,
			Session:    rec.SessionType,
			Office:     "unassigned",
		}
		if rec.OfficeID != nil {
			row.Office = string(*rec.OfficeID)
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedUtilization(report *summary.DailySummary) []utilizationRow {
	rows := make([]utilizationRow, 0, len(report.OfficeUtilization))
	for id, u := range report.OfficeUtilization {
		rows = append(rows, utilizationRow{ID: string(id), OfficeUtilization: u})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func renderSummaryText(report *summary.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily schedule summary for %s\n\n", report.Date)
	fmt.Fprintf(&b, "Appointments: %d total, %d assigned, %d unassigned\n", report.TotalAppointments, report.AssignedCount, report.UnassignedCount)
	fmt.Fprintf(&b, "Conflicts: %d\n\n", len(report.Conflicts))

	if rows := scheduleRows(report); len(rows) > 0 {
		b.WriteString("Schedule:\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "  %s  %-12s %-10s %-10s %s\n", row.Time, row.ExternalID, row.Clinician, row.Session, row.Office)
		}
		b.WriteString("\n")
	}

	b.WriteString("Office utilization:\n")
	for _, row := range sortedUtilization(report) {
		fmt.Fprintf(&b, "  %-8s %d/%d slots\n", row.ID, row.BookedSlots, row.TotalSlots)
	}

	if len(report.Alerts) > 0 {
		b.WriteString("\nAlerts:\n")
		for _, a := range report.Alerts {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", a.Severity, a.Type, a.Message)
		}
	}
	return b.String()
}

func renderSummaryHTML(report *summary.DailySummary) string {
	data := summaryEmailData{
		DailySummary: report,
		Schedule:     scheduleRows(report),
		Utilization:  sortedUtilization(report),
	}
	var b strings.Builder
	if err := summaryHTML.Execute(&b, data); err != nil {
		// Fall back to plain text wrapped in <pre>.
		return "<pre>" + template.HTMLEscapeString(renderSummaryText(report)) + "</pre>"
	}
	return b.String()
}

package schedule

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/observability/metrics"
	"github.com/attunehealth/office-scheduler/internal/rules"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

var assignTracer = otel.Tracer("scheduler.internal.schedule")

// SnapshotLoader supplies the immutable state an assignment evaluates
// against. Implementations fetch from the stores; tests inject fixtures.
type SnapshotLoader interface {
	Load(ctx context.Context, window Window) (*Snapshot, error)
}

// Assigner selects the best office for a scheduling request.
type Assigner struct {
	loader   SnapshotLoader
	resolver *Resolver
	virtual  office.ID
	loc      *time.Location
	logger   *logging.Logger
	metrics  *metrics.SchedulingMetrics
}

// NewAssigner creates an office assigner. The location fixes which civil day
// a request's snapshot covers; nil means UTC. Metrics may be nil.
func NewAssigner(loader SnapshotLoader, resolver *Resolver, virtualOffice office.ID, loc *time.Location, logger *logging.Logger, m *metrics.SchedulingMetrics) *Assigner {
	if loader == nil {
		panic("schedule: snapshot loader required")
	}
	if resolver == nil {
		panic("schedule: resolver required")
	}
	if virtualOffice == "" {
		virtualOffice = office.Virtual
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Assigner{
		loader:   loader,
		resolver: resolver,
		virtual:  virtualOffice,
		loc:      loc,
		logger:   logger,
		metrics:  m,
	}
}

// FindOptimalOffice evaluates the request against a fresh snapshot. The
// returned error is reserved for collaborator I/O failures; every
// engine-level outcome, including validation failures and "no office
// available", is expressed in the Result.
func (a *Assigner) FindOptimalOffice(ctx context.Context, req Request) (Result, error) {
	ctx, span := assignTracer.Start(ctx, "schedule.find_optimal_office")
	defer span.End()
	span.SetAttributes(
		attribute.String("scheduler.client_id", req.ClientID),
		attribute.String("scheduler.session_type", string(req.SessionType)),
	)

	if err := req.Validate(); err != nil {
		a.metrics.ObserveAssignment("rejected", "validation")
		return Result{
			Success:       false,
			Error:         err.Error(),
			EvaluationLog: []string{"validation: " + err.Error()},
		}, nil
	}

	snap, err := a.loader.Load(ctx, DayWindowOf(req.DateTime, a.loc))
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("schedule: load snapshot: %w", err)
	}

	result := a.evaluate(snap, req)
	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	a.metrics.ObserveAssignment(outcome, result.Notes)
	a.logger.Info("office assignment evaluated",
		"client_id", req.ClientID,
		"success", result.Success,
		"office_id", officeOrEmpty(result.OfficeID),
		"conflicts", len(result.Conflicts),
	)
	return result, nil
}

// Evaluate runs the decision procedure against an explicit snapshot. It is
// deterministic: identical inputs always produce the identical result.
func (a *Assigner) Evaluate(snap *Snapshot, req Request) Result {
	if err := req.Validate(); err != nil {
		return Result{
			Success:       false,
			Error:         err.Error(),
			EvaluationLog: []string{"validation: " + err.Error()},
		}
	}
	return a.evaluate(snap, req)
}

func (a *Assigner) evaluate(snap *Snapshot, req Request) Result {
	var log []string

	inService := office.InServiceOnly(snap.Offices)
	if len(inService) == 0 {
		log = append(log, "roster: no offices in service")
		return Result{
			Success:       false,
			Error:         "no offices available",
			EvaluationLog: log,
		}
	}

	candidates, log := a.applyRules(snap, req, inService, log)
	if len(candidates) == 0 {
		log = append(log, "rules: all in-service offices vetoed")
		return Result{
			Success:       false,
			Error:         "no offices available",
			EvaluationLog: log,
		}
	}

	// 1. Sticky assignment: keep the client in their previous room when
	// it is still available.
	if pref, ok := snap.Preferences[req.ClientID]; ok && pref.AssignedOffice != nil {
		if _, found := office.Find(candidates, *pref.AssignedOffice); found {
			log = append(log, fmt.Sprintf("sticky assignment: client previously assigned %s", *pref.AssignedOffice))
			return a.finalize(snap, req, *pref.AssignedOffice, "client has preferred office", log)
		}
		log = append(log, fmt.Sprintf("sticky assignment: %s not available", *pref.AssignedOffice))
	} else {
		log = append(log, "sticky assignment: none on record")
	}

	// 2. Clinician preference, in the clinician's stated order.
	if clin, ok := snap.Clinicians[req.ClinicianID]; ok && len(clin.PreferredOffices) > 0 {
		for _, id := range clin.PreferredOffices {
			if _, found := office.Find(candidates, id); found {
				log = append(log, fmt.Sprintf("clinician preference: %s available", id))
				return a.finalize(snap, req, id, "clinician preferred office", log)
			}
		}
		log = append(log, "clinician preference: no preferred office available")
	} else {
		log = append(log, "clinician preference: none on record")
	}

	// 3. Accessibility requirement, from the request or the client's
	// stored mobility needs.
	needsAccessible := req.Requirements.Accessibility
	if pref, ok := snap.Preferences[req.ClientID]; ok && pref.RequiresAccessibleOffice() {
		needsAccessible = true
	}
	if needsAccessible {
		for _, o := range candidates {
			if o.Accessible {
				log = append(log, fmt.Sprintf("accessibility: %s is accessible", o.ID))
				return a.finalize(snap, req, o.ID, "accessible office for client with mobility needs", log)
			}
		}
		log = append(log, "accessibility: no accessible office available")
	}

	// 4. Telehealth sessions occupy no physical room.
	if req.SessionType == SessionTelehealth {
		log = append(log, "telehealth: assigning virtual office")
		virtual := a.virtual
		return Result{
			Success:       true,
			OfficeID:      &virtual,
			Notes:         "telehealth session",
			EvaluationLog: log,
		}
	}

	// 5. Default: first candidate in roster order.
	chosen := candidates[0].ID
	log = append(log, fmt.Sprintf("default: first in-service office %s", chosen))
	return a.finalize(snap, req, chosen, "default assignment", log)
}

// applyRules overlays the active assignment rules onto the candidate list.
// Hard rules remove their offices from candidacy; soft rules move them to
// the back of the order. Rules are already sorted by ascending priority.
func (a *Assigner) applyRules(snap *Snapshot, req Request, candidates []office.Office, log []string) ([]office.Office, []string) {
	subject := rules.Subject{
		ClientID:    req.ClientID,
		ClinicianID: req.ClinicianID,
		SessionType: string(req.SessionType),
	}

	for _, rule := range snap.Rules {
		if !rule.Active || !rule.Matches(subject) {
			continue
		}
		switch rule.Override {
		case rules.OverrideHard:
			before := len(candidates)
			candidates = removeOffices(candidates, rule.OfficeIDs)
			log = append(log, fmt.Sprintf("rule %d (%s, hard): vetoed %d office(s)", rule.Priority, rule.RuleType, before-len(candidates)))
		case rules.OverrideSoft:
			candidates = demoteOffices(candidates, rule.OfficeIDs)
			log = append(log, fmt.Sprintf("rule %d (%s, soft): down-ranked %v", rule.Priority, rule.RuleType, rule.OfficeIDs))
		default:
			log = append(log, fmt.Sprintf("rule %d (%s): advisory only", rule.Priority, rule.RuleType))
		}
	}
	return candidates, log
}

// finalize attaches conflict information for the chosen office and builds
// the successful result.
func (a *Assigner) finalize(snap *Snapshot, req Request, chosen office.ID, notes string, log []string) Result {
	conflicts := a.resolver.CheckConflicts(chosen, req, snap.Bookings)
	for i := range conflicts {
		conflicts[i].Resolution = a.resolver.Resolve(*conflicts[i].ExistingBooking, req, snap.Offices, snap.Bookings)
		log = append(log, fmt.Sprintf("conflict in %s: %s", chosen, conflicts[i].Resolution.Type))
	}

	id := chosen
	return Result{
		Success:       true,
		OfficeID:      &id,
		Conflicts:     conflicts,
		Notes:         notes,
		EvaluationLog: log,
	}
}

func removeOffices(candidates []office.Office, vetoed []office.ID) []office.Office {
	out := make([]office.Office, 0, len(candidates))
	for _, o := range candidates {
		if !containsID(vetoed, o.ID) {
			out = append(out, o)
		}
	}
	return out
}

func demoteOffices(candidates []office.Office, demoted []office.ID) []office.Office {
	kept := make([]office.Office, 0, len(candidates))
	var back []office.Office
	for _, o := range candidates {
		if containsID(demoted, o.ID) {
			back = append(back, o)
		} else {
			kept = append(kept, o)
		}
	}
	return append(kept, back...)
}

func containsID(ids []office.ID, id office.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func officeOrEmpty(id *office.ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

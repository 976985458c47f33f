package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/observability/metrics"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A booking ending exactly when another starts
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Resolver decides what happens when two bookings in the same office
// overlap in time. It holds no mutable state; every call is referentially
// transparent given its inputs.
type Resolver struct {
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewResolver creates a conflict resolver. Metrics may be nil.
func NewResolver(logger *logging.Logger, m *metrics.SchedulingMetrics) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{logger: logger, metrics: m}
}

// CheckConflicts returns one conflict entry for every existing booking in
// the office whose interval overlaps the request. Resolutions are not yet
// decided; see Resolve.
func (r *Resolver) CheckConflicts(officeID office.ID, req Request, bookings Bookings) []Conflict {
	var out []Conflict
	for i := range bookings[officeID] {
		existing := bookings[officeID][i]
		if Overlaps(req.Start(), req.End(), existing.Start(), existing.End()) {
			out = append(out, Conflict{
				OfficeID:        officeID,
				ExistingBooking: &existing,
			})
		}
	}
	return out
}

// Resolve decides the outcome of one conflict between an existing booking
// and an incoming request contending for the same office. The existing
// booking is relocated only when the incoming request carries strictly
// higher priority and another office can absorb it.
func (r *Resolver) Resolve(existing, incoming Request, roster []office.Office, bookings Bookings) Resolution {
	existingPriority := Priority(existing.SessionType)
	incomingPriority := Priority(incoming.SessionType)

	if incomingPriority <= existingPriority {
		r.metrics.ObserveConflict(string(ResolutionCannotRelocate))
		return Resolution{
			Type: ResolutionCannotRelocate,
			Reason: fmt.Sprintf("existing %s session (priority %d) outranks incoming %s session (priority %d)",
				existing.SessionType, existingPriority, incoming.SessionType, incomingPriority),
		}
	}

	alt, ok := r.findAlternativeOffice(existing, roster, bookings)
	if !ok {
		r.metrics.ObserveConflict(string(ResolutionCannotRelocate))
		return Resolution{
			Type:   ResolutionCannotRelocate,
			Reason: "no alternative office can absorb the existing booking",
		}
	}

	r.metrics.ObserveConflict(string(ResolutionRelocate))
	r.logger.Info("conflict resolved by relocation",
		"existing_session", existing.SessionType,
		"incoming_session", incoming.SessionType,
		"new_office", alt,
	)
	return Resolution{
		Type:        ResolutionRelocate,
		Reason:      fmt.Sprintf("incoming %s session outranks existing %s session", incoming.SessionType, existing.SessionType),
		NewOfficeID: &alt,
	}
}

// findAlternativeOffice looks for an in-service office that satisfies the
// displaced booking's accessibility requirement and has no overlapping
// bookings. Candidates are scanned in canonical id order so the pick is
// deterministic.
func (r *Resolver) findAlternativeOffice(displaced Request, roster []office.Office, bookings Bookings) (office.ID, bool) {
	candidates := office.InServiceOnly(roster)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	for _, o := range candidates {
		if displaced.Requirements.Accessibility && !o.Accessible {
			continue
		}
		if r.hasOverlap(o.ID, displaced, bookings) {
			continue
		}
		return o.ID, true
	}
	return "", false
}

func (r *Resolver) hasOverlap(officeID office.ID, req Request, bookings Bookings) bool {
	for _, existing := range bookings[officeID] {
		if Overlaps(req.Start(), req.End(), existing.Start(), existing.End()) {
			return true
		}
	}
	return false
}

package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/clinicians"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/preferences"
	"github.com/attunehealth/office-scheduler/internal/rules"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Window bounds the booking interval a snapshot covers.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayWindowOf returns the civil day containing t in the given location. A
// nil location means UTC.
func DayWindowOf(t time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Snapshot is the immutable state one assignment evaluates against. The
// engine never mutates it; concurrent requests may share a cached copy.
type Snapshot struct {
	Offices     []office.Office                         `json:"offices"`
	Rules       []rules.Rule                            `json:"rules"`
	Clinicians  map[string]clinicians.Profile           `json:"clinicians"`
	Preferences map[string]preferences.ClientPreference `json:"preferences"`
	Bookings    Bookings                                `json:"bookings"`
}

// OfficeSource lists the office roster.
type OfficeSource interface {
	List(ctx context.Context) ([]office.Office, error)
}

// RuleSource lists active assignment rules ordered by priority.
type RuleSource interface {
	ListActive(ctx context.Context) ([]rules.Rule, error)
}

// ClinicianSource lists clinician profiles.
type ClinicianSource interface {
	List(ctx context.Context) ([]clinicians.Profile, error)
}

// PreferenceSource lists stored client preferences.
type PreferenceSource interface {
	List(ctx context.Context) ([]preferences.ClientPreference, error)
}

// BookingSource lists appointment records inside a window.
type BookingSource interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]appointments.Record, error)
}

// Loader assembles snapshots from the stores, with a short-lived Redis
// cache in front. Staleness inside the TTL is acceptable: the engine is a
// best-effort scheduling aid, not a booking ledger.
type Loader struct {
	offices     OfficeSource
	rules       RuleSource
	clinicians  ClinicianSource
	preferences PreferenceSource
	bookings    BookingSource

	cache    *redis.Client
	cacheTTL time.Duration
	logger   *logging.Logger
}

// LoaderConfig wires the snapshot loader.
type LoaderConfig struct {
	Offices     OfficeSource
	Rules       RuleSource
	Clinicians  ClinicianSource
	Preferences PreferenceSource
	Bookings    BookingSource

	// Cache is optional; nil disables snapshot caching.
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *logging.Logger
}

// NewLoader creates a snapshot loader.
func NewLoader(cfg LoaderConfig) *Loader {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &Loader{
		offices:     cfg.Offices,
		rules:       cfg.Rules,
		clinicians:  cfg.Clinicians,
		preferences: cfg.Preferences,
		bookings:    cfg.Bookings,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		logger:      cfg.Logger,
	}
}

func (l *Loader) cacheKey(w Window) string {
	return fmt.Sprintf("schedule:snapshot:%d:%d", w.Start.Unix(), w.End.Unix())
}

// Load fetches all snapshot inputs, fanning the independent reads out
// concurrently and joining before evaluation begins. None of the fetches
// depend on each other's result, so the fan-out is safe.
func (l *Loader) Load(ctx context.Context, window Window) (*Snapshot, error) {
	if snap := l.fromCache(ctx, window); snap != nil {
		return snap, nil
	}

	var (
		offs  []office.Office
		rls   []rules.Rule
		clins []clinicians.Profile
		prefs []preferences.ClientPreference
		recs  []appointments.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		offs, err = l.offices.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		rls, err = l.rules.ListActive(gctx)
		return err
	})
	g.Go(func() (err error) {
		clins, err = l.clinicians.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		prefs, err = l.preferences.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		recs, err = l.bookings.ListBetween(gctx, window.Start, window.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("schedule: snapshot fetch: %w", err)
	}

	rules.SortByPriority(rls)
	snap := &Snapshot{
		Offices:     derivePreferredBy(offs, clins),
		Rules:       rls,
		Clinicians:  clinicians.ByID(clins),
		Preferences: preferences.ByClientID(prefs),
		Bookings:    bookingsFromRecords(recs),
	}

	l.toCache(ctx, window, snap)
	return snap, nil
}

func (l *Loader) fromCache(ctx context.Context, window Window) *Snapshot {
	if l.cache == nil {
		return nil
	}
	data, err := l.cache.Get(ctx, l.cacheKey(window)).Bytes()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("snapshot cache read failed", "error", err)
		}
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		l.logger.Warn("snapshot cache decode failed", "error", err)
		return nil
	}
	return &snap
}

func (l *Loader) toCache(ctx context.Context, window Window, snap *Snapshot) {
	if l.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		l.logger.Warn("snapshot cache encode failed", "error", err)
		return
	}
	if err := l.cache.Set(ctx, l.cacheKey(window), data, l.cacheTTL).Err(); err != nil {
		l.logger.Warn("snapshot cache write failed", "error", err)
	}
}

// derivePreferredBy annotates offices with the clinicians that list them.
func derivePreferredBy(offs []office.Office, clins []clinicians.Profile) []office.Office {
	byOffice := make(map[office.ID][]string)
	for _, c := range clins {
		for _, id := range c.PreferredOffices {
			byOffice[id] = append(byOffice[id], c.ID)
		}
	}
	for i := range offs {
		offs[i].PreferredBy = byOffice[offs[i].ID]
	}
	return offs
}

// bookingsFromRecords groups assigned appointment records by office.
func bookingsFromRecords(recs []appointments.Record) Bookings {
	out := make(Bookings)
	for _, rec := range recs {
		if !rec.Assigned() {
			continue
		}
		out[*rec.OfficeID] = append(out[*rec.OfficeID], RequestFromRecord(rec))
	}
	return out
}

// RequestFromRecord converts a stored appointment into the request shape
// the engine evaluates.
func RequestFromRecord(rec appointments.Record) Request {
	return Request{
		ClientID:    rec.ClientID,
		ClinicianID: rec.ClinicianID,
		DateTime:    rec.StartTime,
		Duration:    rec.Duration,
		SessionType: SessionType(rec.SessionType),
		Requirements: Requirements{
			Accessibility: rec.AccessibilityRequired,
		},
	}
}

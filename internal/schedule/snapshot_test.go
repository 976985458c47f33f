package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/attunehealth/office-scheduler/internal/appointments"
	"github.com/attunehealth/office-scheduler/internal/clinicians"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/preferences"
	"github.com/attunehealth/office-scheduler/internal/rules"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

type stubSources struct {
	offices []office.Office
	rules   []rules.Rule
	clins   []clinicians.Profile
	prefs   []preferences.ClientPreference
	recs    []appointments.Record

	calls int
}

func (s *stubSources) List(ctx context.Context) ([]office.Office, error) {
	s.calls++
	return s.offices, nil
}
func (s *stubSources) ListActive(ctx context.Context) ([]rules.Rule, error) { return s.rules, nil }
func (s *stubSources) ListBetween(ctx context.Context, start, end time.Time) ([]appointments.Record, error) {
	return s.recs, nil
}

type stubClinicianSource struct{ clins []clinicians.Profile }

func (s *stubClinicianSource) List(ctx context.Context) ([]clinicians.Profile, error) {
	return s.clins, nil
}

type stubPreferenceSource struct{ prefs []preferences.ClientPreference }

func (s *stubPreferenceSource) List(ctx context.Context) ([]preferences.ClientPreference, error) {
	return s.prefs, nil
}

func newTestLoader(t *testing.T, src *stubSources, cache *redis.Client, ttl time.Duration) *Loader {
	t.Helper()
	return NewLoader(LoaderConfig{
		Offices:     src,
		Rules:       src,
		Clinicians:  &stubClinicianSource{clins: src.clins},
		Preferences: &stubPreferenceSource{prefs: src.prefs},
		Bookings:    src,
		Cache:       cache,
		CacheTTL:    ttl,
		Logger:      logging.Default(),
	})
}

func TestDayWindowOf(t *testing.T) {
	w := DayWindowOf(time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC), nil)
	if !w.Start.Equal(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window start = %v", w.Start)
	}
	if !w.End.Equal(time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window end = %v", w.End)
	}

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	w = DayWindowOf(time.Date(2026, time.March, 10, 1, 30, 0, 0, time.UTC), ny)
	if !w.Start.Equal(time.Date(2026, time.March, 9, 0, 0, 0, 0, ny)) {
		t.Errorf("local window start = %v", w.Start)
	}
	if !w.End.Equal(time.Date(2026, time.March, 10, 0, 0, 0, 0, ny)) {
		t.Errorf("local window end = %v", w.End)
	}
}

func TestLoaderAssemblesSnapshot(t *testing.T) {
	b2 := office.ID("B-2")
	src := &stubSources{
		offices: []office.Office{
			{ID: "B-1", InService: true},
			{ID: "B-2", InService: true},
		},
		rules: []rules.Rule{
			{ID: uuid.New(), Priority: 5, RuleType: "b", Active: true},
			{ID: uuid.New(), Priority: 1, RuleType: "a", Active: true},
		},
		clins: []clinicians.Profile{
			{ID: "clin-1", PreferredOffices: []office.ID{"B-2", "B-1"}},
		},
		prefs: []preferences.ClientPreference{
			{ClientID: "client-1", MobilityNeeds: []string{"wheelchair"}},
		},
		recs: []appointments.Record{
			{
				ID:          uuid.New(),
				ExternalID:  "ext-1",
				ClientID:    "client-1",
				ClinicianID: "clin-1",
				OfficeID:    &b2,
				StartTime:   time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
				Duration:    60,
				SessionType: "in-person",
			},
			{
				// unassigned records carry no office and stay out of the
				// bookings map
				ID:          uuid.New(),
				ExternalID:  "ext-2",
				ClientID:    "client-2",
				ClinicianID: "clin-1",
				StartTime:   time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC),
				Duration:    60,
				SessionType: "in-person",
			},
		},
	}
	loader := newTestLoader(t, src, nil, time.Minute)

	snap, err := loader.Load(context.Background(), DayWindowOf(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(snap.Rules) != 2 || snap.Rules[0].Priority != 1 {
		t.Error("rules should come back sorted by priority")
	}
	if _, ok := snap.Clinicians["clin-1"]; !ok {
		t.Error("clinicians should be keyed by id")
	}
	if !snap.Preferences["client-1"].RequiresAccessibleOffice() {
		t.Error("preferences should be keyed by client id")
	}
	if len(snap.Bookings["B-2"]) != 1 {
		t.Fatalf("expected 1 booking for B-2, got %d", len(snap.Bookings["B-2"]))
	}
	if got := snap.Bookings["B-2"][0]; got.SessionType != SessionInPerson || got.Duration != 60 {
		t.Errorf("booking conversion mismatch: %+v", got)
	}

	for _, o := range snap.Offices {
		want := []string{"clin-1"}
		if len(o.PreferredBy) != len(want) || o.PreferredBy[0] != "clin-1" {
			t.Errorf("office %s PreferredBy = %v, want %v", o.ID, o.PreferredBy, want)
		}
	}
}

func TestLoaderCachesSnapshots(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := &stubSources{
		offices: []office.Office{{ID: "B-1", InService: true}},
	}
	loader := newTestLoader(t, src, client, time.Minute)
	window := DayWindowOf(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), nil)

	if _, err := loader.Load(context.Background(), window); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := loader.Load(context.Background(), window); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("office source called %d times, want 1 (cache hit)", src.calls)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := loader.Load(context.Background(), window); err != nil {
		t.Fatalf("post-expiry load: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("office source called %d times after TTL expiry, want 2", src.calls)
	}
}

func TestLoaderIgnoresCorruptCacheEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := &stubSources{offices: []office.Office{{ID: "B-1", InService: true}}}
	loader := newTestLoader(t, src, client, time.Minute)
	window := DayWindowOf(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), nil)

	mr.Set(loader.cacheKey(window), "{not json")

	snap, err := loader.Load(context.Background(), window)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Offices) != 1 {
		t.Error("corrupt cache entry should fall through to the stores")
	}
}

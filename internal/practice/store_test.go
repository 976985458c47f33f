package practice

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client)
}

func TestStoreGetReturnsDefaultsOnMiss(t *testing.T) {
	store := newTestStore(t)

	cfg, err := store.Get(context.Background(), "sunrise")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if cfg.PracticeID != "sunrise" {
		t.Errorf("expected practice id sunrise, got %s", cfg.PracticeID)
	}
	if cfg.DefaultOfficeID == "" || cfg.SlotMinutes <= 0 {
		t.Errorf("defaults not populated: %+v", cfg)
	}
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := DefaultConfig("sunrise")
	cfg.Timezone = "UTC"
	cfg.UtilizationAlertThreshold = 0.75
	cfg.Notifications.EmailEnabled = true
	cfg.Notifications.EmailRecipients = []string{"front-desk@example.com"}

	if err := store.Set(ctx, cfg); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := store.Get(ctx, "sunrise")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Timezone != "UTC" || got.UtilizationAlertThreshold != 0.75 {
		t.Errorf("config did not round-trip: %+v", got)
	}
	if !got.Notifications.EmailEnabled || len(got.Notifications.EmailRecipients) != 1 {
		t.Errorf("notification prefs did not round-trip: %+v", got.Notifications)
	}
}

package preferences

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/attunehealth/office-scheduler/internal/office"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, office.NewNormalizer(""))
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assigned := office.ID("b1") // raw form, store must normalize
	in := ClientPreference{
		ClientID:        "cl-42",
		MobilityNeeds:   []string{"wheelchair"},
		RoomConsistency: 5,
		AssignedOffice:  &assigned,
	}
	if err := store.Set(ctx, in); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := store.Get(ctx, "cl-42")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.AssignedOffice == nil || *got.AssignedOffice != "B-1" {
		t.Errorf("expected sticky office normalized to B-1, got %v", got.AssignedOffice)
	}
	if !got.RequiresAccessibleOffice() {
		t.Error("expected mobility needs to require an accessible office")
	}
	if got.RoomConsistency != 5 {
		t.Errorf("expected room consistency 5, got %d", got.RoomConsistency)
	}
}

func TestStoreGetMissingReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "cl-unknown")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ClientID != "cl-unknown" {
		t.Errorf("expected client id echoed back, got %q", got.ClientID)
	}
	if got.AssignedOffice != nil {
		t.Errorf("expected no sticky office, got %v", *got.AssignedOffice)
	}
}

func TestStoreSetRequiresClientID(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(context.Background(), ClientPreference{}); err == nil {
		t.Error("expected error for missing client id")
	}
}

func TestStoreList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"cl-1", "cl-2", "cl-3"} {
		if err := store.Set(ctx, ClientPreference{ClientID: id}); err != nil {
			t.Fatalf("Set(%s) returned error: %v", id, err)
		}
	}

	prefs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(prefs) != 3 {
		t.Errorf("expected 3 preference records, got %d", len(prefs))
	}
}

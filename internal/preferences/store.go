package preferences

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/attunehealth/office-scheduler/internal/office"
)

const keyPrefix = "prefs:client:"
const indexKey = "prefs:clients"

// Store provides persistence for client preferences, backed by Redis.
type Store struct {
	redis *redis.Client
	norm  office.Normalizer
}

// NewStore creates a client preference store.
func NewStore(redisClient *redis.Client, norm office.Normalizer) *Store {
	return &Store{redis: redisClient, norm: norm}
}

func (s *Store) key(clientID string) string {
	return keyPrefix + clientID
}

// Get retrieves preferences for a client, returning an empty record (no
// stored preferences) when none exist.
func (s *Store) Get(ctx context.Context, clientID string) (ClientPreference, error) {
	data, err := s.redis.Get(ctx, s.key(clientID)).Bytes()
	if err == redis.Nil {
		return ClientPreference{ClientID: clientID}, nil
	}
	if err != nil {
		return ClientPreference{}, fmt.Errorf("preferences: get %s: %w", clientID, err)
	}

	var pref ClientPreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return ClientPreference{}, fmt.Errorf("preferences: unmarshal %s: %w", clientID, err)
	}
	if pref.AssignedOffice != nil {
		normalized := s.norm.Normalize(string(*pref.AssignedOffice))
		pref.AssignedOffice = &normalized
	}
	return pref, nil
}

// Set saves preferences for a client and tracks the client id in the
// listing index.
func (s *Store) Set(ctx context.Context, pref ClientPreference) error {
	if pref.ClientID == "" {
		return fmt.Errorf("preferences: client id required")
	}
	if pref.AssignedOffice != nil {
		normalized := s.norm.Normalize(string(*pref.AssignedOffice))
		pref.AssignedOffice = &normalized
	}

	data, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("preferences: marshal %s: %w", pref.ClientID, err)
	}
	if err := s.redis.Set(ctx, s.key(pref.ClientID), data, 0).Err(); err != nil {
		return fmt.Errorf("preferences: set %s: %w", pref.ClientID, err)
	}
	if err := s.redis.SAdd(ctx, indexKey, pref.ClientID).Err(); err != nil {
		return fmt.Errorf("preferences: index %s: %w", pref.ClientID, err)
	}
	return nil
}

// List returns all stored client preferences.
func (s *Store) List(ctx context.Context) ([]ClientPreference, error) {
	ids, err := s.redis.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("preferences: list ids: %w", err)
	}

	out := make([]ClientPreference, 0, len(ids))
	for _, id := range ids {
		pref, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, pref)
	}
	return out, nil
}

package practice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store provides persistence for practice configuration.
type Store struct {
	redis *redis.Client
}

// NewStore creates a practice config store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) key(practiceID string) string {
	return fmt.Sprintf("practice:config:%s", practiceID)
}

// Get retrieves practice config, returning defaults if not found.
func (s *Store) Get(ctx context.Context, practiceID string) (*Config, error) {
	data, err := s.redis.Get(ctx, s.key(practiceID)).Bytes()
	if err == redis.Nil {
		return DefaultConfig(practiceID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("practice: get config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("practice: unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Set saves practice config.
func (s *Store) Set(ctx context.Context, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("practice: marshal config: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(cfg.PracticeID), data, 0).Err(); err != nil {
		return fmt.Errorf("practice: set config: %w", err)
	}
	return nil
}

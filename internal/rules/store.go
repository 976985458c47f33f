package rules

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/attunehealth/office-scheduler/internal/office"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for assignment rules.
type Store struct {
	db   DB
	norm office.Normalizer
}

// NewStore creates a rules store.
func NewStore(db DB, norm office.Normalizer) *Store {
	return &Store{db: db, norm: norm}
}

// ListActive returns active rules ordered by ascending priority.
func (s *Store) ListActive(ctx context.Context) ([]Rule, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, priority, rule_type, condition, office_ids, override_level, active
		FROM assignment_rules
		WHERE active = TRUE
		ORDER BY priority ASC, rule_type ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("rules: list active: %w", err)
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		var (
			r          Rule
			rawOffices []string
			rawLevel   string
		)
		if err := rows.Scan(&r.ID, &r.Priority, &r.RuleType, &r.Condition, &rawOffices, &rawLevel, &r.Active); err != nil {
			return nil, fmt.Errorf("rules: scan: %w", err)
		}
		r.Override = OverrideLevel(rawLevel)
		for _, raw := range rawOffices {
			r.OfficeIDs = append(r.OfficeIDs, s.norm.Normalize(raw))
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rules: rows: %w", err)
	}
	return out, nil
}

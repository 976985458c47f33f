package clinicians

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

// Store provides persistence for clinician profiles.
type Store struct {
	db   DB
	norm office.Normalizer
}

// NewStore creates a clinician store.
func NewStore(db DB, norm office.Normalizer) *Store {
	return &Store{db: db, norm: norm}
}

// List returns all clinician profiles ordered by id. Preferred office ids
// are normalized on read; preference order from the row is preserved.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT clinician_id, external_practitioner_id, preferred_offices, allows_relationship, age_range_min, age_range_max
		FROM clinicians
		ORDER BY clinician_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("clinicians: list: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var (
			p       Profile
			rawPref []string
		)
		if err := rows.Scan(&p.ID, &p.ExternalPractitionerID, &rawPref, &p.AllowsRelationship, &p.AgeRangeMin, &p.AgeRangeMax); err != nil {
			return nil, fmt.Errorf("clinicians: scan: %w", err)
		}
		for _, raw := range rawPref {
			p.PreferredOffices = append(p.PreferredOffices, s.norm.Normalize(raw))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clinicians: rows: %w", err)
	}
	return out, nil
}

// Upsert inserts or replaces a clinician profile.
func (s *Store) Upsert(ctx context.Context, p *Profile) error {
	prefs := make([]string, 0, len(p.PreferredOffices))
	for _, id := range p.PreferredOffices {
		prefs = append(prefs, string(s.norm.Normalize(string(id))))
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO clinicians (clinician_id, external_practitioner_id, preferred_offices, allows_relationship, age_range_min, age_range_max)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (clinician_id) DO UPDATE SET
			external_practitioner_id = EXCLUDED.external_practitioner_id,
			preferred_offices = EXCLUDED.preferred_offices,
			allows_relationship = EXCLUDED.allows_relationship,
			age_range_min = EXCLUDED.age_range_min,
			age_range_max = EXCLUDED.age_range_max`,
		p.ID, p.ExternalPractitionerID, prefs, p.AllowsRelationship, p.AgeRangeMin, p.AgeRangeMax,
	)
	if err != nil {
		return fmt.Errorf("clinicians: upsert %s: %w", p.ID, err)
	}
	return nil
}

package office

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when an office id is not in the roster.
var ErrNotFound = errors.New("office not found")

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for the office roster.
type Store struct {
	db   DB
	norm Normalizer
}

// NewStore creates an office store. All ids read from or written to the
// database pass through the normalizer.
func NewStore(db DB, norm Normalizer) *Store {
	return &Store{db: db, norm: norm}
}

// List returns the full roster ordered by canonical office id. The ordering
// is the deterministic tie-break used by the assignment engine.
func (s *Store) List(ctx context.Context) ([]Office, error) {
	rows, err := s.db.Query(ctx, `
		SELECT office_id, in_service, is_accessible, size, age_groups, special_features, notes
		FROM offices
		ORDER BY office_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("office: list: %w", err)
	}
	defer rows.Close()
	return s.scanOffices(rows)
}

// Get returns a single office by id.
func (s *Store) Get(ctx context.Context, id ID) (*Office, error) {
	id = s.norm.Normalize(string(id))
	row := s.db.QueryRow(ctx, `
		SELECT office_id, in_service, is_accessible, size, age_groups, special_features, notes
		FROM offices
		WHERE office_id = $1`, string(id))

	o, err := scanOffice(row, s.norm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("office: get %s: %w", id, err)
	}
	return &o, nil
}

// Upsert inserts or replaces an office row keyed by canonical id.
func (s *Store) Upsert(ctx context.Context, o *Office) error {
	o.ID = s.norm.Normalize(string(o.ID))
	now := time.Now().UTC()
	_, err := s.db.Exec(ctx, `
		INSERT INTO offices (office_id, in_service, is_accessible, size, age_groups, special_features, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (office_id) DO UPDATE SET
			in_service = EXCLUDED.in_service,
			is_accessible = EXCLUDED.is_accessible,
			size = EXCLUDED.size,
			age_groups = EXCLUDED.age_groups,
			special_features = EXCLUDED.special_features,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		string(o.ID), o.InService, o.Accessible, string(o.Size),
		o.AgeGroups, o.SpecialFeatures, o.Notes, now,
	)
	if err != nil {
		return fmt.Errorf("office: upsert %s: %w", o.ID, err)
	}
	return nil
}

func (s *Store) scanOffices(rows pgx.Rows) ([]Office, error) {
	var out []Office
	for rows.Next() {
		o, err := scanOffice(rows, s.norm)
		if err != nil {
			return nil, fmt.Errorf("office: scan: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("office: rows: %w", err)
	}
	return out, nil
}

func scanOffice(row pgx.Row, norm Normalizer) (Office, error) {
	var (
		o       Office
		rawID   string
		rawSize string
	)
	if err := row.Scan(&rawID, &o.InService, &o.Accessible, &rawSize, &o.AgeGroups, &o.SpecialFeatures, &o.Notes); err != nil {
		return Office{}, err
	}
	o.ID = norm.Normalize(rawID)
	o.Size = Size(rawSize)
	return o, nil
}

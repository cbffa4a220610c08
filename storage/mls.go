package storage

import (
	"context"
	"fmt"

	"homesnacks-cycle/models"
)

// UpsertMLS inserts or refreshes a registry entry keyed by code.
func (s *SQLStore) UpsertMLS(ctx context.Context, m *models.MLS) error {
	ts := s.now()
	m.UpdatedAt = ts
	if m.CreatedAt.IsZero() {
		m.CreatedAt = ts
	}

	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`INSERT INTO mls (code, name, rets_url, business_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			name = excluded.name,
			rets_url = excluded.rets_url,
			business_url = excluded.business_url,
			updated_at = excluded.updated_at
		RETURNING id`),
		m.Code, m.Name, m.RetsURL, m.BusinessURL, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("upsert mls %q: %w", m.Code, err)
	}
	return nil
}

// ListMLS returns the registry ordered by id.
func (s *SQLStore) ListMLS(ctx context.Context) ([]*models.MLS, error) {
	var out []*models.MLS
	if err := s.db.SelectContext(ctx, &out,
		"SELECT id, code, name, rets_url, business_url, created_at, updated_at FROM mls ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list mls: %w", err)
	}
	return out, nil
}

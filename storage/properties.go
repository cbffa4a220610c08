package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"homesnacks-cycle/models"
)

// propertyColumns lists every persisted column except id, in table order.
var propertyColumns = []string{
	"mls_id", "mls_property_id", "address_line_1", "city", "state", "zip_code",
	"price", "status", "days_on_market", "photo_count",
	"bedrooms_total", "bathrooms_total", "bedrooms_full", "bedrooms_half",
	"bathrooms_full", "bathrooms_half", "rooms_total", "size", "year_built",
	"house_style", "property_type", "property_description", "water_source", "sewer",
	"family_room_level", "bedroom_dimensions_all", "living_room_dimensions",
	"living_room_flooring", "living_room_level", "attic_info", "basement_info",
	"heating_info", "cooling_info", "garage_info", "fireplace_info", "exterior_features",
	"roof_info", "foundation_info", "lot_dimensions", "lot_description",
	"school_elementary", "school_middle", "school_high",
	"seo_url", "agent_name", "agent_phone", "agent_phone_2",
	"created_at", "updated_at",
}

var (
	selectProperties = "SELECT id, " + strings.Join(propertyColumns, ", ") + " FROM properties"
	insertProperty   = buildPropertyInsert()
	updateProperty   = buildPropertyUpdate()
)

func buildPropertyInsert() string {
	named := make([]string, len(propertyColumns))
	for i, c := range propertyColumns {
		named[i] = ":" + c
	}
	return "INSERT INTO properties (" + strings.Join(propertyColumns, ", ") +
		") VALUES (" + strings.Join(named, ", ") + ") RETURNING id"
}

func buildPropertyUpdate() string {
	sets := make([]string, 0, len(propertyColumns))
	for _, c := range propertyColumns {
		switch c {
		case "mls_id", "mls_property_id", "created_at":
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	return "UPDATE properties SET " + strings.Join(sets, ", ") + " WHERE id = :id"
}

// FindByNaturalKey returns ErrNotFound when no property has the given key.
func (s *SQLStore) FindByNaturalKey(ctx context.Context, mlsID int64, mlsPropertyID string) (*models.Property, error) {
	var p models.Property
	err := s.db.GetContext(ctx, &p,
		s.db.Rebind(selectProperties+" WHERE mls_id = ? AND mls_property_id = ?"),
		mlsID, mlsPropertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find property %d-%s: %w", mlsID, mlsPropertyID, err)
	}
	return &p, nil
}

// InsertProperty stores p as a new row and sets p.ID.
func (s *SQLStore) InsertProperty(ctx context.Context, p *models.Property) error {
	ts := s.now()
	p.CreatedAt, p.UpdatedAt = ts, ts

	stmt, err := s.db.PrepareNamedContext(ctx, insertProperty)
	if err != nil {
		return fmt.Errorf("prepare property insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	if err := stmt.GetContext(ctx, &p.ID, p); err != nil {
		return fmt.Errorf("insert property %d-%s: %w", p.MLSID, p.MLSPropertyID, err)
	}
	return nil
}

// UpdateProperty overwrites every mutable column of the row identified by p.ID.
func (s *SQLStore) UpdateProperty(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = s.now()

	res, err := s.db.NamedExecContext(ctx, updateProperty, p)
	if err != nil {
		return fmt.Errorf("update property %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update property %d: rows affected: %w", p.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProperties returns the total number of canonical rows.
func (s *SQLStore) CountProperties(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM properties"); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return n, nil
}

// FindSimilar runs one scope of the nearby-properties cascade.
func (s *SQLStore) FindSimilar(ctx context.Context, q SimilarQuery) ([]*models.Property, error) {
	var where string
	var args []any
	switch q.Scope {
	case ScopeZip:
		where, args = "zip_code = ?", []any{q.ZipCode}
	case ScopeCity:
		where, args = "city = ? AND state = ?", []any{q.City, q.State}
	case ScopeState:
		where, args = "state = ?", []any{q.State}
	default:
		return nil, fmt.Errorf("find similar: unknown scope %d", q.Scope)
	}

	query := selectProperties + " WHERE " + where +
		" AND bedrooms_total = ? AND bathrooms_total BETWEEN ? AND ?" +
		" AND status <> ? AND id <> ? ORDER BY days_on_market, id LIMIT ?"
	args = append(args, q.Bedrooms, q.BathMin, q.BathMax, models.PropertyHidden, q.ExcludeID, q.Limit)

	var out []*models.Property
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find similar (%s): %w", q.Scope, err)
	}
	return out, nil
}

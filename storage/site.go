package storage

import (
	"context"
	"fmt"

	"homesnacks-cycle/models"
)

const selectCities = "SELECT id, name, state, active, property_count_current FROM cities"

// TopCities returns active cities ranked by cached property count, then name.
func (s *SQLStore) TopCities(ctx context.Context, limit int) ([]*models.City, error) {
	var out []*models.City
	err := s.db.SelectContext(ctx, &out,
		s.db.Rebind(selectCities+" WHERE active ORDER BY property_count_current DESC, name LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("top cities: %w", err)
	}
	return out, nil
}

// ActiveCities returns every active city ordered by name.
func (s *SQLStore) ActiveCities(ctx context.Context) ([]*models.City, error) {
	var out []*models.City
	if err := s.db.SelectContext(ctx, &out, selectCities+" WHERE active ORDER BY name, state"); err != nil {
		return nil, fmt.Errorf("active cities: %w", err)
	}
	return out, nil
}

// CarouselProperties returns photographed listings above minPrice, freshest first.
func (s *SQLStore) CarouselProperties(ctx context.Context, minPrice float64, limit int) ([]*models.Property, error) {
	var out []*models.Property
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(selectProperties+
		" WHERE price > ? AND photo_count > 0 AND status <> ? ORDER BY days_on_market, id LIMIT ?"),
		minPrice, models.PropertyHidden, limit)
	if err != nil {
		return nil, fmt.Errorf("carousel properties: %w", err)
	}
	return out, nil
}

// CityProperties returns one page of a city's non-hidden listings, matched by
// city and state text.
func (s *SQLStore) CityProperties(ctx context.Context, city, state string, offset, limit int) ([]*models.Property, error) {
	var out []*models.Property
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(selectProperties+
		" WHERE city = ? AND state = ? AND status <> ? ORDER BY days_on_market, id LIMIT ? OFFSET ?"),
		city, state, models.PropertyHidden, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("city properties %s, %s: %w", city, state, err)
	}
	return out, nil
}

// CountVisibleProperties counts non-hidden listings.
func (s *SQLStore) CountVisibleProperties(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind("SELECT COUNT(*) FROM properties WHERE status <> ?"), models.PropertyHidden)
	if err != nil {
		return 0, fmt.Errorf("count visible properties: %w", err)
	}
	return n, nil
}

// VisibleProperties returns a window of non-hidden listings in a stable order.
func (s *SQLStore) VisibleProperties(ctx context.Context, offset, limit int) ([]*models.Property, error) {
	var out []*models.Property
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(selectProperties+
		" WHERE status <> ? ORDER BY days_on_market, id LIMIT ? OFFSET ?"),
		models.PropertyHidden, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("visible properties: %w", err)
	}
	return out, nil
}

// VisibleSlugs returns the SEO slug of every non-hidden listing.
func (s *SQLStore) VisibleSlugs(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.SelectContext(ctx, &out, s.db.Rebind("SELECT seo_url FROM properties WHERE status <> ?"), models.PropertyHidden)
	if err != nil {
		return nil, fmt.Errorf("visible slugs: %w", err)
	}
	return out, nil
}

// RefreshCityCounts registers any (city, state) pair present on canonical
// properties and recomputes every city's non-hidden property count. It returns
// the number of cities afterwards.
func (s *SQLStore) RefreshCityCounts(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("refresh cities: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO cities (name, state, active, property_count_current)
		SELECT DISTINCT p.city, p.state, TRUE, 0 FROM properties p
		WHERE NOT EXISTS (SELECT 1 FROM cities c WHERE c.name = p.city AND c.state = p.state)`); err != nil {
		return 0, fmt.Errorf("refresh cities: insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE cities SET property_count_current = (
		SELECT COUNT(*) FROM properties p
		WHERE p.city = cities.name AND p.state = cities.state AND p.status <> ?)`), models.PropertyHidden); err != nil {
		return 0, fmt.Errorf("refresh cities: count: %w", err)
	}

	var n int
	if err := tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM cities"); err != nil {
		return 0, fmt.Errorf("refresh cities: total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("refresh cities: commit: %w", err)
	}
	return n, nil
}

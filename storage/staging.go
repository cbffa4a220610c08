package storage

import (
	"context"
	"fmt"
	"strings"

	"homesnacks-cycle/models"
)

var stagingColumns = []string{
	"mls_id", "mls_number", "street_number", "direction", "street_name",
	"city", "state", "zip_code", "list_price", "bedrooms", "ttl_baths",
	"bedrooms_full", "bedrooms_half", "full_baths", "partial_baths",
	"days_on_market", "photo_count", "total_sf_apx", "style", "public_remarks",
	"rooms", "year_built", "water", "sewer", "property_type", "family_rm_level",
	"bedroom1_dim", "bedroom2_dim", "bedroom3_dim", "bedroom4_dim",
	"living_rm_dim", "living_rm_flooring", "living_rm_level",
	"attic", "basement", "heat", "cooling", "garage", "fireplace",
	"exterior_features", "roof", "foundation", "lot_size_apx", "lot_description",
	"elementary_school", "middle_school", "high_school",
	"la_first_name", "la_last_name", "la_phone1", "la_phone2",
}

func stagingSelect() string {
	cols := make([]string, len(stagingColumns))
	for i, c := range stagingColumns {
		cols[i] = "COALESCE(" + c + ", '') AS " + c
	}
	return "SELECT " + strings.Join(cols, ", ") +
		" FROM property_import WHERE LENGTH(TRIM(city)) > 0 AND LENGTH(TRIM(state)) > 0" +
		" ORDER BY mls_id, mls_number"
}

// StagingRows returns every staged row that has a city and state.
func (s *SQLStore) StagingRows(ctx context.Context) ([]*models.SourceRow, error) {
	var out []*models.SourceRow
	if err := s.db.SelectContext(ctx, &out, stagingSelect()); err != nil {
		return nil, fmt.Errorf("staging rows: %w", err)
	}
	return out, nil
}

// CountStagedByMLS returns the number of usable staged rows per raw MLS id.
func (s *SQLStore) CountStagedByMLS(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT COALESCE(mls_id, ''), COUNT(*) FROM property_import
		WHERE LENGTH(TRIM(city)) > 0 AND LENGTH(TRIM(state)) > 0 GROUP BY mls_id`)
	if err != nil {
		return nil, fmt.Errorf("count staged rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("count staged rows: scan: %w", err)
		}
		counts[strings.TrimSpace(id)] += n
	}
	return counts, rows.Err()
}

// InsertStagingRow appends one raw row to the staging table.
func (s *SQLStore) InsertStagingRow(ctx context.Context, r *models.SourceRow) error {
	named := make([]string, len(stagingColumns))
	for i, c := range stagingColumns {
		named[i] = ":" + c
	}
	query := "INSERT INTO property_import (" + strings.Join(stagingColumns, ", ") +
		") VALUES (" + strings.Join(named, ", ") + ")"
	if _, err := s.db.NamedExecContext(ctx, query, r); err != nil {
		return fmt.Errorf("insert staging row: %w", err)
	}
	return nil
}

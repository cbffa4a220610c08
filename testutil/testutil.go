// Package testutil holds shared fixtures for store-backed tests.
package testutil

import (
	"context"
	"testing"

	"homesnacks-cycle/models"
	"homesnacks-cycle/storage"
)

// NewStore returns a migrated in-memory SQLite store configured the same way
// as production. It is closed when the test completes.
func NewStore(t *testing.T) *storage.SQLStore {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, storage.DriverSQLite, ":memory:", nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return storage.NewSQLStore(db)
}

// Property returns a visible canonical property with sensible defaults.
func Property(mlsID int64, mlsPropertyID string) *models.Property {
	return &models.Property{
		MLSID:          mlsID,
		MLSPropertyID:  mlsPropertyID,
		AddressLine1:   "1 Test St",
		City:           "Springfield",
		State:          "IL",
		ZipCode:        "62704",
		Price:          150000,
		Status:         models.PropertyActive,
		BedroomsTotal:  3,
		BathroomsTotal: 2,
		Size:           1500,
		SEOSlug:        "1-test-st-springfield-il-62704-" + mlsPropertyID,
	}
}

// InsertProperty stores p or fails the test.
func InsertProperty(t *testing.T, s *storage.SQLStore, p *models.Property) *models.Property {
	t.Helper()
	if err := s.InsertProperty(context.Background(), p); err != nil {
		t.Fatalf("insert property %s: %v", p.MLSPropertyID, err)
	}
	return p
}

// StageRow stores a raw staging row or fails the test.
func StageRow(t *testing.T, s *storage.SQLStore, r *models.SourceRow) {
	t.Helper()
	if err := s.InsertStagingRow(context.Background(), r); err != nil {
		t.Fatalf("stage row %s: %v", r.MLSNumber, err)
	}
}

// AddCity inserts an active city row with the given cached count.
func AddCity(t *testing.T, s *storage.SQLStore, name, state string, count int) {
	t.Helper()
	_, err := s.DB().ExecContext(context.Background(), s.DB().Rebind(
		"INSERT INTO cities (name, state, active, property_count_current) VALUES (?, ?, TRUE, ?)"),
		name, state, count)
	if err != nil {
		t.Fatalf("add city %s, %s: %v", name, state, err)
	}
}

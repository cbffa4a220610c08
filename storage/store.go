package storage

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements every storage interface over a single sqlx handle.
// Queries are written with '?' placeholders and rebound for the driver.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

var (
	_ PropertyStore = (*SQLStore)(nil)
	_ StagingReader = (*SQLStore)(nil)
	_ SimilarFinder = (*SQLStore)(nil)
	_ SiteReader    = (*SQLStore)(nil)
	_ CycleStore    = (*SQLStore)(nil)
	_ MLSStore      = (*SQLStore)(nil)
	_ CityAdmin     = (*SQLStore)(nil)
)

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

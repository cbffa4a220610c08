package storage

import (
	"context"
	"errors"
	"time"

	"homesnacks-cycle/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// PropertyStore persists canonical properties keyed by (MLS id, MLS property id).
type PropertyStore interface {
	FindByNaturalKey(ctx context.Context, mlsID int64, mlsPropertyID string) (*models.Property, error)
	InsertProperty(ctx context.Context, p *models.Property) error
	UpdateProperty(ctx context.Context, p *models.Property) error
	CountProperties(ctx context.Context) (int, error)
}

// StagingReader reads raw feed rows from the staging table.
type StagingReader interface {
	StagingRows(ctx context.Context) ([]*models.SourceRow, error)
	CountStagedByMLS(ctx context.Context) (map[string]int, error)
}

// Scope is the geographic breadth of a similar-property search.
type Scope int

const (
	ScopeZip Scope = iota
	ScopeCity
	ScopeState
)

func (s Scope) String() string {
	switch s {
	case ScopeZip:
		return "zip"
	case ScopeCity:
		return "city"
	case ScopeState:
		return "state"
	}
	return "unknown"
}

// SimilarQuery selects non-hidden properties with the same bedroom count and
// a bathroom total inside [BathMin, BathMax], within one geographic scope,
// ordered by ascending days on market.
type SimilarQuery struct {
	Scope     Scope
	ZipCode   string
	City      string
	State     string
	Bedrooms  float64
	BathMin   float64
	BathMax   float64
	ExcludeID int64
	Limit     int
}

// SimilarFinder runs one scoped similarity query.
type SimilarFinder interface {
	FindSimilar(ctx context.Context, q SimilarQuery) ([]*models.Property, error)
}

// SiteReader is the read-only view the page renderer works from.
type SiteReader interface {
	TopCities(ctx context.Context, limit int) ([]*models.City, error)
	ActiveCities(ctx context.Context) ([]*models.City, error)
	CarouselProperties(ctx context.Context, minPrice float64, limit int) ([]*models.Property, error)
	CityProperties(ctx context.Context, city, state string, offset, limit int) ([]*models.Property, error)
	CountVisibleProperties(ctx context.Context) (int, error)
	VisibleProperties(ctx context.Context, offset, limit int) ([]*models.Property, error)
	VisibleSlugs(ctx context.Context) ([]string, error)
}

// CycleStore is the append-only data cycle run log.
type CycleStore interface {
	CreateCycle(ctx context.Context, runKey string, startedAt time.Time) (*models.DataCycle, error)
	LatestCycle(ctx context.Context) (*models.DataCycle, error)
	SetStageStatus(ctx context.Context, cycleID int64, step models.StepID, status models.JobStatus) error
	FinishCycle(ctx context.Context, cycleID int64, at time.Time) error
	StartStep(ctx context.Context, cycleID int64, step models.StepID, at time.Time) (*models.DataCycleStep, error)
	FinishStep(ctx context.Context, stepID int64, status models.JobStatus, at time.Time, notes string) error
	CycleSteps(ctx context.Context, cycleID int64) ([]*models.DataCycleStep, error)
}

// MLSStore is the registry of listing feeds.
type MLSStore interface {
	UpsertMLS(ctx context.Context, m *models.MLS) error
	ListMLS(ctx context.Context) ([]*models.MLS, error)
}

// CityAdmin recomputes the cached City aggregates.
type CityAdmin interface {
	RefreshCityCounts(ctx context.Context) (int, error)
}

// WarningWriter is the audit sink for normaliser field warnings.
type WarningWriter interface {
	WriteWarnings(cycleID int64, warnings []models.FieldWarning) error
	Close() error
}

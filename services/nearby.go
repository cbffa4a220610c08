package services

import (
	"context"
	"fmt"
	"sort"

	"homesnacks-cycle/models"
	"homesnacks-cycle/storage"
)

// bathTolerance is the allowed distance from the subject's bathroom total.
const bathTolerance = 0.5

// NearbyResolver finds similar visible listings around a subject property by
// widening the search from zip code to city to state.
type NearbyResolver struct {
	finder storage.SimilarFinder
	limit  int
}

// NewNearbyResolver creates a resolver returning at most limit properties.
func NewNearbyResolver(finder storage.SimilarFinder, limit int) *NearbyResolver {
	if limit <= 0 {
		limit = 4
	}
	return &NearbyResolver{finder: finder, limit: limit}
}

// Resolve returns up to the configured limit of non-hidden properties with the
// subject's bedroom count and a bathroom total within half a bath, never
// including the subject itself. Each wider scope is only searched while the
// scopes before it found fewer than limit matches. The combined results are
// stably ordered by days on market, deduplicated and truncated.
func (r *NearbyResolver) Resolve(ctx context.Context, subject *models.Property) ([]*models.Property, error) {
	base := storage.SimilarQuery{
		ZipCode:   subject.ZipCode,
		City:      subject.City,
		State:     subject.State,
		Bedrooms:  subject.BedroomsTotal,
		BathMin:   subject.BathroomsTotal - bathTolerance,
		BathMax:   subject.BathroomsTotal + bathTolerance,
		ExcludeID: subject.ID,
		Limit:     r.limit,
	}

	var found []*models.Property
	for _, scope := range []storage.Scope{storage.ScopeZip, storage.ScopeCity, storage.ScopeState} {
		if len(found) >= r.limit {
			break
		}
		q := base
		q.Scope = scope
		matches, err := r.finder.FindSimilar(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("nearby %d/%s: %w", subject.MLSID, subject.MLSPropertyID, err)
		}
		found = append(found, matches...)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DaysOnMarket < found[j].DaysOnMarket
	})

	seen := make(map[int64]struct{}, len(found))
	out := make([]*models.Property, 0, r.limit)
	for _, p := range found {
		if len(out) == r.limit {
			break
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

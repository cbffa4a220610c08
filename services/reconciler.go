package services

import (
	"context"
	"errors"
	"fmt"

	"homesnacks-cycle/models"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/utils"
)

// ErrLookupFailed wraps a persistence failure on the natural-key lookup.
// Such rows are never routed to insert.
var ErrLookupFailed = errors.New("property lookup failed")

// Outcome is what Reconcile did with a candidate.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeInserted
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	}
	return "none"
}

// Reconciler upserts canonical properties by (MLS id, MLS property id).
type Reconciler struct {
	store  storage.PropertyStore
	logger *utils.Logger
}

// NewReconciler creates a Reconciler backed by store.
func NewReconciler(store storage.PropertyStore, logger *utils.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Reconcile updates the existing record for candidate's natural key in place,
// or inserts candidate when none exists. Lookup errors other than
// storage.ErrNotFound are returned wrapped in ErrLookupFailed.
func (r *Reconciler) Reconcile(ctx context.Context, candidate *models.Property) (Outcome, error) {
	existing, err := r.store.FindByNaturalKey(ctx, candidate.MLSID, candidate.MLSPropertyID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := r.store.InsertProperty(ctx, candidate); err != nil {
			return OutcomeNone, fmt.Errorf("insert %d/%s: %w", candidate.MLSID, candidate.MLSPropertyID, err)
		}
		r.logger.Debug("[reconcile] Created %d/%s", candidate.MLSID, candidate.MLSPropertyID)
		return OutcomeInserted, nil

	case err != nil:
		return OutcomeNone, fmt.Errorf("%w: %d/%s: %v", ErrLookupFailed, candidate.MLSID, candidate.MLSPropertyID, err)
	}

	ApplyMutableFields(existing, candidate)
	if err := r.store.UpdateProperty(ctx, existing); err != nil {
		return OutcomeNone, fmt.Errorf("update %d/%s: %w", existing.MLSID, existing.MLSPropertyID, err)
	}
	candidate.ID = existing.ID
	r.logger.Debug("[reconcile] Found & updated %d/%s", existing.MLSID, existing.MLSPropertyID)
	return OutcomeUpdated, nil
}

// ApplyMutableFields copies every feed-owned field from src onto dst. Identity
// and timestamps on dst are left untouched.
func ApplyMutableFields(dst, src *models.Property) {
	dst.AddressLine1 = src.AddressLine1
	dst.City = src.City
	dst.State = src.State
	dst.ZipCode = src.ZipCode
	dst.Price = src.Price
	dst.Status = src.Status
	dst.DaysOnMarket = src.DaysOnMarket
	dst.PhotoCount = src.PhotoCount

	dst.BedroomsTotal = src.BedroomsTotal
	dst.BathroomsTotal = src.BathroomsTotal
	dst.BedroomsFull = src.BedroomsFull
	dst.BedroomsHalf = src.BedroomsHalf
	dst.BathroomsFull = src.BathroomsFull
	dst.BathroomsHalf = src.BathroomsHalf
	dst.RoomsTotal = src.RoomsTotal
	dst.Size = src.Size
	dst.YearBuilt = src.YearBuilt

	dst.HouseStyle = src.HouseStyle
	dst.PropertyType = src.PropertyType
	dst.Description = src.Description
	dst.WaterSource = src.WaterSource
	dst.Sewer = src.Sewer
	dst.FamilyRoomLevel = src.FamilyRoomLevel
	dst.BedroomDimensions = src.BedroomDimensions
	dst.LivingRoomDimensions = src.LivingRoomDimensions
	dst.LivingRoomFlooring = src.LivingRoomFlooring
	dst.LivingRoomLevel = src.LivingRoomLevel
	dst.AtticInfo = src.AtticInfo
	dst.BasementInfo = src.BasementInfo
	dst.HeatingInfo = src.HeatingInfo
	dst.CoolingInfo = src.CoolingInfo
	dst.GarageInfo = src.GarageInfo
	dst.FireplaceInfo = src.FireplaceInfo
	dst.ExteriorFeatures = src.ExteriorFeatures
	dst.RoofInfo = src.RoofInfo
	dst.FoundationInfo = src.FoundationInfo
	dst.LotDimensions = src.LotDimensions
	dst.LotDescription = src.LotDescription
	dst.SchoolElementary = src.SchoolElementary
	dst.SchoolMiddle = src.SchoolMiddle
	dst.SchoolHigh = src.SchoolHigh

	dst.SEOSlug = src.SEOSlug
	dst.AgentName = src.AgentName
	dst.AgentPhone = src.AgentPhone
	dst.AgentPhone2 = src.AgentPhone2
}

package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"homesnacks-cycle/models"
)

// stagingField maps a staging column name to its SourceRow field.
func stagingField(r *models.SourceRow, column string) *string {
	switch column {
	case "mls_id":
		return &r.MLSID
	case "mls_number":
		return &r.MLSNumber
	case "street_number":
		return &r.StreetNumber
	case "direction":
		return &r.Direction
	case "street_name":
		return &r.StreetName
	case "city":
		return &r.City
	case "state":
		return &r.State
	case "zip_code":
		return &r.ZipCode
	case "list_price":
		return &r.ListPrice
	case "bedrooms":
		return &r.Bedrooms
	case "ttl_baths":
		return &r.Bathrooms
	case "bedrooms_full":
		return &r.BedroomsFull
	case "bedrooms_half":
		return &r.BedroomsHalf
	case "full_baths":
		return &r.BathroomsFull
	case "partial_baths":
		return &r.BathroomsHalf
	case "days_on_market":
		return &r.DaysOnMarket
	case "photo_count":
		return &r.PhotoCount
	case "total_sf_apx":
		return &r.Size
	case "style":
		return &r.Style
	case "public_remarks":
		return &r.PublicRemarks
	case "rooms":
		return &r.Rooms
	case "year_built":
		return &r.YearBuilt
	case "water":
		return &r.Water
	case "sewer":
		return &r.Sewer
	case "property_type":
		return &r.PropertyType
	case "family_rm_level":
		return &r.FamilyRoomLevel
	case "bedroom1_dim":
		return &r.Bedroom1Dim
	case "bedroom2_dim":
		return &r.Bedroom2Dim
	case "bedroom3_dim":
		return &r.Bedroom3Dim
	case "bedroom4_dim":
		return &r.Bedroom4Dim
	case "living_rm_dim":
		return &r.LivingRoomDim
	case "living_rm_flooring":
		return &r.LivingRoomFloor
	case "living_rm_level":
		return &r.LivingRoomLevel
	case "attic":
		return &r.Attic
	case "basement":
		return &r.Basement
	case "heat":
		return &r.Heat
	case "cooling":
		return &r.Cooling
	case "garage":
		return &r.Garage
	case "fireplace":
		return &r.Fireplace
	case "exterior_features":
		return &r.ExteriorFeatures
	case "roof":
		return &r.Roof
	case "foundation":
		return &r.Foundation
	case "lot_size_apx":
		return &r.LotSize
	case "lot_description":
		return &r.LotDescription
	case "elementary_school":
		return &r.ElementarySchool
	case "middle_school":
		return &r.MiddleSchool
	case "high_school":
		return &r.HighSchool
	case "la_first_name":
		return &r.AgentFirstName
	case "la_last_name":
		return &r.AgentLastName
	case "la_phone1":
		return &r.AgentPhone1
	case "la_phone2":
		return &r.AgentPhone2
	}
	return nil
}

// ReadStagingCSV parses a feed export whose header row names staging columns
// (case-insensitive). Unknown columns are ignored; missing ones stay empty.
func ReadStagingCSV(src io.Reader) ([]*models.SourceRow, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []*models.SourceRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		row := &models.SourceRow{}
		for i, v := range rec {
			if i >= len(header) {
				break
			}
			if f := stagingField(row, header[i]); f != nil {
				*f = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

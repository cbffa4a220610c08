package models

import "time"

// SourceRow is one unprocessed row from the MLS staging table. Every column
// arrives as free text and may be empty, padded, or non-numeric garbage.
type SourceRow struct {
	MLSID            string `db:"mls_id"`
	MLSNumber        string `db:"mls_number"`
	StreetNumber     string `db:"street_number"`
	Direction        string `db:"direction"`
	StreetName       string `db:"street_name"`
	City             string `db:"city"`
	State            string `db:"state"`
	ZipCode          string `db:"zip_code"`
	ListPrice        string `db:"list_price"`
	Bedrooms         string `db:"bedrooms"`
	Bathrooms        string `db:"ttl_baths"`
	BedroomsFull     string `db:"bedrooms_full"`
	BedroomsHalf     string `db:"bedrooms_half"`
	BathroomsFull    string `db:"full_baths"`
	BathroomsHalf    string `db:"partial_baths"`
	DaysOnMarket     string `db:"days_on_market"`
	PhotoCount       string `db:"photo_count"`
	Size             string `db:"total_sf_apx"`
	Style            string `db:"style"`
	PublicRemarks    string `db:"public_remarks"`
	Rooms            string `db:"rooms"`
	YearBuilt        string `db:"year_built"`
	Water            string `db:"water"`
	Sewer            string `db:"sewer"`
	PropertyType     string `db:"property_type"`
	FamilyRoomLevel  string `db:"family_rm_level"`
	Bedroom1Dim      string `db:"bedroom1_dim"`
	Bedroom2Dim      string `db:"bedroom2_dim"`
	Bedroom3Dim      string `db:"bedroom3_dim"`
	Bedroom4Dim      string `db:"bedroom4_dim"`
	LivingRoomDim    string `db:"living_rm_dim"`
	LivingRoomFloor  string `db:"living_rm_flooring"`
	LivingRoomLevel  string `db:"living_rm_level"`
	Attic            string `db:"attic"`
	Basement         string `db:"basement"`
	Heat             string `db:"heat"`
	Cooling          string `db:"cooling"`
	Garage           string `db:"garage"`
	Fireplace        string `db:"fireplace"`
	ExteriorFeatures string `db:"exterior_features"`
	Roof             string `db:"roof"`
	Foundation       string `db:"foundation"`
	LotSize          string `db:"lot_size_apx"`
	LotDescription   string `db:"lot_description"`
	ElementarySchool string `db:"elementary_school"`
	MiddleSchool     string `db:"middle_school"`
	HighSchool       string `db:"high_school"`
	AgentFirstName   string `db:"la_first_name"`
	AgentLastName    string `db:"la_last_name"`
	AgentPhone1      string `db:"la_phone1"`
	AgentPhone2      string `db:"la_phone2"`
}

// Property is the canonical, cleaned listing record used to render the site.
// (MLSID, MLSPropertyID) is the natural key.
type Property struct {
	ID            int64          `db:"id"`
	MLSID         int64          `db:"mls_id"`
	MLSPropertyID string         `db:"mls_property_id"`
	AddressLine1  string         `db:"address_line_1"`
	City          string         `db:"city"`
	State         string         `db:"state"`
	ZipCode       string         `db:"zip_code"`
	Price         float64        `db:"price"`
	Status        PropertyStatus `db:"status"`
	DaysOnMarket  int            `db:"days_on_market"`
	PhotoCount    int            `db:"photo_count"`

	BedroomsTotal  float64 `db:"bedrooms_total"`
	BathroomsTotal float64 `db:"bathrooms_total"`
	BedroomsFull   float64 `db:"bedrooms_full"`
	BedroomsHalf   float64 `db:"bedrooms_half"`
	BathroomsFull  float64 `db:"bathrooms_full"`
	BathroomsHalf  float64 `db:"bathrooms_half"`
	RoomsTotal     float64 `db:"rooms_total"`
	Size           int     `db:"size"`
	YearBuilt      int     `db:"year_built"`

	HouseStyle           string `db:"house_style"`
	PropertyType         string `db:"property_type"`
	Description          string `db:"property_description"`
	WaterSource          string `db:"water_source"`
	Sewer                string `db:"sewer"`
	FamilyRoomLevel      string `db:"family_room_level"`
	BedroomDimensions    string `db:"bedroom_dimensions_all"`
	LivingRoomDimensions string `db:"living_room_dimensions"`
	LivingRoomFlooring   string `db:"living_room_flooring"`
	LivingRoomLevel      string `db:"living_room_level"`
	AtticInfo            string `db:"attic_info"`
	BasementInfo         string `db:"basement_info"`
	HeatingInfo          string `db:"heating_info"`
	CoolingInfo          string `db:"cooling_info"`
	GarageInfo           string `db:"garage_info"`
	FireplaceInfo        string `db:"fireplace_info"`
	ExteriorFeatures     string `db:"exterior_features"`
	RoofInfo             string `db:"roof_info"`
	FoundationInfo       string `db:"foundation_info"`
	LotDimensions        string `db:"lot_dimensions"`
	LotDescription       string `db:"lot_description"`
	SchoolElementary     string `db:"school_elementary"`
	SchoolMiddle         string `db:"school_middle"`
	SchoolHigh           string `db:"school_high"`

	SEOSlug     string  `db:"seo_url"`
	AgentName   string  `db:"agent_name"`
	AgentPhone  *string `db:"agent_phone"`
	AgentPhone2 *string `db:"agent_phone_2"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// City is a name+state lookup row carrying a cached property count that is
// refreshed outside the data cycle.
type City struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	State         string `db:"state"`
	Active        bool   `db:"active"`
	PropertyCount int    `db:"property_count_current"`
}

// MLS is one registered listing feed.
type MLS struct {
	ID          int64     `db:"id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	RetsURL     string    `db:"rets_url"`
	BusinessURL string    `db:"business_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// FieldWarning records a raw field that could not be converted and was
// replaced by its default.
type FieldWarning struct {
	MLSID         string
	MLSPropertyID string
	Field         string
	RawValue      string
}

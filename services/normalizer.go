package services

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"homesnacks-cycle/models"
	"homesnacks-cycle/utils"
)

// ErrInvalidIdentity is returned when a row has no usable natural key.
var ErrInvalidIdentity = errors.New("invalid listing identity")

var (
	// commaRegexp matches a comma directly followed by a non-space character
	commaRegexp = regexp.MustCompile(`,([^ ])`)
	// digitsRegexp matches a bare run of digits
	digitsRegexp = regexp.MustCompile(`^[0-9]+$`)
	// stateRegexp matches a two letter state abbreviation
	stateRegexp = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Column widths of the properties table.
const (
	maxPropertyIDLen = 50
	maxCityLen       = 100
	maxZipLen        = 10
)

// Normalizer turns raw staging rows into typed canonical properties.
// Bad field values never fail a row: they fall back to their zero default
// and are reported as FieldWarnings.
type Normalizer struct {
	logger *utils.Logger
	title  cases.Caser
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{
		logger: logger,
		title:  cases.Title(language.English),
	}
}

// rowContext collects warnings for one source row.
type rowContext struct {
	row      *models.SourceRow
	warnings []models.FieldWarning
}

func (rc *rowContext) warn(field, raw string) {
	rc.warnings = append(rc.warnings, models.FieldWarning{
		MLSID:         strings.TrimSpace(rc.row.MLSID),
		MLSPropertyID: strings.TrimSpace(rc.row.MLSNumber),
		Field:         field,
		RawValue:      raw,
	})
}

// Normalize converts one staging row. It returns ErrInvalidIdentity when the
// MLS id is not an integer, the MLS property id is empty or too long, or the
// state is not a two letter code; every other problem is absorbed into the
// returned warnings.
func (n *Normalizer) Normalize(row *models.SourceRow) (*models.Property, []models.FieldWarning, error) {
	mlsID, err := strconv.ParseInt(strings.TrimSpace(row.MLSID), 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: mls id %q", ErrInvalidIdentity, row.MLSID)
	}
	propertyID := strings.TrimSpace(row.MLSNumber)
	if propertyID == "" || utf8.RuneCountInString(propertyID) > maxPropertyIDLen {
		return nil, nil, fmt.Errorf("%w: mls number %q for mls %d", ErrInvalidIdentity, row.MLSNumber, mlsID)
	}
	state := strings.ToUpper(strings.TrimSpace(row.State))
	if !stateRegexp.MatchString(state) {
		return nil, nil, fmt.Errorf("%w: state %q for %d/%s", ErrInvalidIdentity, row.State, mlsID, propertyID)
	}

	rc := &rowContext{row: row}

	city := n.titleCase(row.City)
	if utf8.RuneCountInString(city) > maxCityLen {
		rc.warn("city", row.City)
		city = strings.TrimSpace(string([]rune(city)[:maxCityLen]))
	}
	zip := strings.TrimSpace(row.ZipCode)
	if utf8.RuneCountInString(zip) > maxZipLen {
		rc.warn("zip_code", row.ZipCode)
		zip = ""
	}
	address := n.addressLine(row.StreetNumber, row.Direction, row.StreetName)

	p := &models.Property{
		MLSID:         mlsID,
		MLSPropertyID: propertyID,
		AddressLine1:  address,
		City:          city,
		State:         state,
		ZipCode:       zip,
		Status:        models.PropertyActive,

		Price:          rc.nonNegativeFloat("list_price", row.ListPrice),
		BedroomsTotal:  rc.nonNegativeFloat("bedrooms", row.Bedrooms),
		BathroomsTotal: rc.nonNegativeFloat("ttl_baths", row.Bathrooms),
		BedroomsFull:   rc.nonNegativeFloat("bedrooms_full", row.BedroomsFull),
		BedroomsHalf:   rc.nonNegativeFloat("bedrooms_half", row.BedroomsHalf),
		BathroomsFull:  rc.nonNegativeFloat("full_baths", row.BathroomsFull),
		BathroomsHalf:  rc.nonNegativeFloat("partial_baths", row.BathroomsHalf),
		RoomsTotal:     rc.nonNegativeFloat("rooms", row.Rooms),
		DaysOnMarket:   rc.nonNegativeInt("days_on_market", row.DaysOnMarket),
		PhotoCount:     rc.nonNegativeInt("photo_count", row.PhotoCount),
		Size:           rc.nonNegativeInt("total_sf_apx", row.Size),
		YearBuilt:      rc.nonNegativeInt("year_built", row.YearBuilt),

		HouseStyle:      strings.TrimSpace(row.Style),
		PropertyType:    strings.TrimSpace(row.PropertyType),
		Description:     strings.TrimSpace(row.PublicRemarks),
		FamilyRoomLevel: strings.TrimSpace(row.FamilyRoomLevel),

		BedroomDimensions: JoinDimensions(
			row.Bedroom1Dim, row.Bedroom2Dim, row.Bedroom3Dim, row.Bedroom4Dim),
		LivingRoomDimensions: CompactDimension(row.LivingRoomDim),
		LivingRoomFlooring:   strings.TrimSpace(row.LivingRoomFloor),
		LivingRoomLevel:      strings.TrimSpace(row.LivingRoomLevel),
		LotDimensions:        CompactDimension(row.LotSize),

		AtticInfo:        SpaceCommas(row.Attic),
		BasementInfo:     SpaceCommas(row.Basement),
		HeatingInfo:      SpaceCommas(row.Heat),
		CoolingInfo:      SpaceCommas(row.Cooling),
		GarageInfo:       SpaceCommas(row.Garage),
		FireplaceInfo:    SpaceCommas(row.Fireplace),
		RoofInfo:         SpaceCommas(row.Roof),
		FoundationInfo:   SpaceCommas(row.Foundation),
		LotDescription:   SpaceCommas(row.LotDescription),
		WaterSource:      SpaceCommas(row.Water),
		Sewer:            SpaceCommas(row.Sewer),
		ExteriorFeatures: strings.TrimSpace(row.ExteriorFeatures),

		SchoolElementary: strings.TrimSpace(row.ElementarySchool),
		SchoolMiddle:     strings.TrimSpace(row.MiddleSchool),
		SchoolHigh:       strings.TrimSpace(row.HighSchool),

		AgentName:   AgentName(row.AgentFirstName, row.AgentLastName),
		AgentPhone:  rc.phone("la_phone1", row.AgentPhone1),
		AgentPhone2: rc.phone("la_phone2", row.AgentPhone2),
	}
	p.SEOSlug = Slug(address, city, state, zip, mlsID, propertyID)

	for _, w := range rc.warnings {
		n.logger.Warn("[normalizer] %s/%s: field %s value %q replaced",
			w.MLSID, w.MLSPropertyID, w.Field, w.RawValue)
	}
	return p, rc.warnings, nil
}

// addressLine builds "<number>[ <DIR>] <street>", omitting an empty direction.
func (n *Normalizer) addressLine(number, direction, street string) string {
	parts := make([]string, 0, 3)
	if s := n.titleCase(number); s != "" {
		parts = append(parts, s)
	}
	if d := strings.ToUpper(strings.TrimSpace(direction)); d != "" {
		parts = append(parts, d)
	}
	if s := n.titleCase(street); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (n *Normalizer) titleCase(s string) string {
	return n.title.String(strings.ToLower(normaliseText(s)))
}

func (rc *rowContext) nonNegativeFloat(field, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		rc.warn(field, raw)
		return 0
	}
	return v
}

func (rc *rowContext) nonNegativeInt(field, raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		rc.warn(field, raw)
		return 0
	}
	return v
}

func (rc *rowContext) phone(field, raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	formatted, ok := FormatPhone(raw)
	if !ok {
		rc.warn(field, raw)
		return nil
	}
	return &formatted
}

// FormatPhone renders a 7 to 11 digit phone number in the legacy listing
// format: every digit but the last is grouped in threes from the right and
// joined with hyphens, then the last digit is appended as is. 6175551234
// becomes 617-555-1234 and 61755512 becomes 6-175-5512.
func FormatPhone(raw string) (string, bool) {
	digits := strings.TrimSpace(raw)
	if len(digits) < 7 || len(digits) > 11 || !digitsRegexp.MatchString(digits) {
		return "", false
	}
	head, err := strconv.ParseInt(digits[:len(digits)-1], 10, 64)
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(humanize.Comma(head), ",", "-") + digits[len(digits)-1:], true
}

// SpaceCommas inserts a space after every comma not already followed by one.
func SpaceCommas(s string) string {
	return strings.TrimSpace(commaRegexp.ReplaceAllString(s, ", $1"))
}

// CompactDimension strips all spaces from a dimension like "12 X 14" and
// lower-cases it.
func CompactDimension(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// JoinDimensions compacts each dimension and joins the non-empty ones.
func JoinDimensions(dims ...string) string {
	out := make([]string, 0, len(dims))
	for _, d := range dims {
		if c := CompactDimension(d); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, ", ")
}

// AgentName joins the trimmed first and last names, skipping empty parts.
func AgentName(first, last string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{first, last} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

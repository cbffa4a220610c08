package services

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"homesnacks-cycle/models"
	"homesnacks-cycle/utils"
)

func newTestLogger() *utils.Logger { return utils.Discard() }

func sampleRow() *models.SourceRow {
	return &models.SourceRow{
		MLSID:            "101",
		MLSNumber:        "456",
		StreetNumber:     "123",
		Direction:        "n",
		StreetName:       "MAIN  st",
		City:             "springfield",
		State:            "il",
		ZipCode:          "62704",
		ListPrice:        "250000.50",
		Bedrooms:         "3",
		Bathrooms:        "2.5",
		BathroomsFull:    "2",
		BathroomsHalf:    "1",
		DaysOnMarket:     " 12 ",
		PhotoCount:       "8",
		Size:             "1850",
		Rooms:            "7",
		YearBuilt:        "1978",
		Attic:            "Full,Finished",
		Heat:             "Gas, Forced Air",
		ExteriorFeatures: "Deck,Patio, ,Porch",
		Bedroom1Dim:      "12 X 14",
		Bedroom2Dim:      "",
		Bedroom3Dim:      "10 x 11",
		LivingRoomDim:    " 20 X 15 ",
		LotSize:          "66 X 132",
		AgentFirstName:   " Jane ",
		AgentLastName:    "Doe",
		AgentPhone1:      "6175551234",
		AgentPhone2:      "n/a",
	}
}

func TestNormalizeFields(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	p, warnings, err := n.Normalize(sampleRow())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"MLSID", p.MLSID, int64(101)},
		{"MLSPropertyID", p.MLSPropertyID, "456"},
		{"AddressLine1", p.AddressLine1, "123 N Main St"},
		{"City", p.City, "Springfield"},
		{"State", p.State, "IL"},
		{"Price", p.Price, 250000.50},
		{"BedroomsTotal", p.BedroomsTotal, 3.0},
		{"BathroomsTotal", p.BathroomsTotal, 2.5},
		{"DaysOnMarket", p.DaysOnMarket, 12},
		{"Size", p.Size, 1850},
		{"YearBuilt", p.YearBuilt, 1978},
		{"Status", p.Status, models.PropertyActive},
		{"AtticInfo", p.AtticInfo, "Full, Finished"},
		{"HeatingInfo", p.HeatingInfo, "Gas, Forced Air"},
		{"ExteriorFeatures", p.ExteriorFeatures, "Deck,Patio, ,Porch"},
		{"BedroomDimensions", p.BedroomDimensions, "12x14, 10x11"},
		{"LivingRoomDimensions", p.LivingRoomDimensions, "20x15"},
		{"LotDimensions", p.LotDimensions, "66x132"},
		{"AgentName", p.AgentName, "Jane Doe"},
		{"SEOSlug", p.SEOSlug, "123-n-main-st-springfield-il-62704-101456"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v; want %v", c.name, c.got, c.want)
		}
	}

	if p.AgentPhone == nil || *p.AgentPhone != "617-555-1234" {
		t.Errorf("AgentPhone = %v; want 617-555-1234", p.AgentPhone)
	}
	if p.AgentPhone2 != nil {
		t.Errorf("AgentPhone2 = %q; want nil", *p.AgentPhone2)
	}

	// Empty numerics and unparseable phones are reported, not fatal.
	fields := map[string]bool{}
	for _, w := range warnings {
		fields[w.Field] = true
		if w.MLSID != "101" || w.MLSPropertyID != "456" {
			t.Errorf("warning carries wrong identity: %+v", w)
		}
	}
	for _, f := range []string{"la_phone2", "bedrooms_full", "bedrooms_half"} {
		if !fields[f] {
			t.Errorf("expected a warning for %s, got %v", f, warnings)
		}
	}
}

func TestNormalizeNumericFallback(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	tests := []struct {
		raw  string
		want float64
		warn bool
	}{
		{"3", 3.0, false},
		{" 4 ", 4.0, false},
		{"2.5", 2.5, false},
		{"N/A", 0, true},
		{"", 0, true},
		{"   ", 0, true},
		{"-2", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		row := sampleRow()
		row.Bedrooms = tt.raw
		p, warnings, err := n.Normalize(row)
		if err != nil {
			t.Fatalf("Normalize(bedrooms=%q) error: %v", tt.raw, err)
		}
		if p.BedroomsTotal != tt.want {
			t.Errorf("bedrooms %q = %v; want %v", tt.raw, p.BedroomsTotal, tt.want)
		}
		warned := false
		for _, w := range warnings {
			if w.Field == "bedrooms" {
				warned = true
				if w.RawValue != tt.raw {
					t.Errorf("warning raw value = %q; want %q", w.RawValue, tt.raw)
				}
			}
		}
		if warned != tt.warn {
			t.Errorf("bedrooms %q warned = %v; want %v", tt.raw, warned, tt.warn)
		}
	}
}

func TestNormalizeBadFieldsKeepRow(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	row := sampleRow()
	row.ListPrice = "call agent"
	row.DaysOnMarket = "x"
	row.YearBuilt = "19??"

	p, warnings, err := n.Normalize(row)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Price != 0 || p.DaysOnMarket != 0 || p.YearBuilt != 0 {
		t.Errorf("expected zero defaults, got price=%v dom=%d year=%d", p.Price, p.DaysOnMarket, p.YearBuilt)
	}
	if p.City != "Springfield" {
		t.Errorf("row lost its other fields: city=%q", p.City)
	}
	if len(warnings) < 3 {
		t.Errorf("expected at least 3 warnings, got %d", len(warnings))
	}
}

func TestNormalizeOverlongLocationFields(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	row := sampleRow()
	row.ZipCode = "62704-1234-99"
	row.City = strings.Repeat("spring", 20)

	p, warnings, err := n.Normalize(row)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.ZipCode != "" {
		t.Errorf("ZipCode = %q; want empty", p.ZipCode)
	}
	if got := utf8.RuneCountInString(p.City); got != 100 {
		t.Errorf("len(City) = %d; want 100", got)
	}

	fields := map[string]string{}
	for _, w := range warnings {
		fields[w.Field] = w.RawValue
	}
	if fields["zip_code"] != row.ZipCode {
		t.Errorf("zip_code warning = %q; want %q", fields["zip_code"], row.ZipCode)
	}
	if fields["city"] != row.City {
		t.Errorf("city warning = %q; want %q", fields["city"], row.City)
	}
}

func TestNormalizeOmitsEmptyDirection(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	row := sampleRow()
	row.Direction = "  "

	p, _, err := n.Normalize(row)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.AddressLine1 != "123 Main St" {
		t.Errorf("AddressLine1 = %q; want %q", p.AddressLine1, "123 Main St")
	}
}

func TestNormalizeRejectsBadIdentity(t *testing.T) {
	n := NewNormalizer(newTestLogger())

	for _, mutate := range []func(*models.SourceRow){
		func(r *models.SourceRow) { r.MLSID = "MRED" },
		func(r *models.SourceRow) { r.MLSID = "" },
		func(r *models.SourceRow) { r.MLSNumber = "  " },
		func(r *models.SourceRow) { r.MLSNumber = strings.Repeat("9", 51) },
		func(r *models.SourceRow) { r.State = "illinois" },
		func(r *models.SourceRow) { r.State = "I1" },
	} {
		row := sampleRow()
		mutate(row)
		_, _, err := n.Normalize(row)
		if !errors.Is(err, ErrInvalidIdentity) {
			t.Errorf("Normalize(%q/%q state %q) error = %v; want ErrInvalidIdentity", row.MLSID, row.MLSNumber, row.State, err)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"6175551234", "617-555-1234", true},
		{"5551234", "555-1234", true},
		{"16175551234", "1-617-555-1234", true},
		{"61755512", "6-175-5512", true},
		{" 6175551234 ", "617-555-1234", true},
		{"abc", "", false},
		{"617555", "", false},
		{"617-555-1234", "", false},
		{"123456789012", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := FormatPhone(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FormatPhone(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTextHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"SpaceCommas", SpaceCommas("Gas,Forced Air, Humidifier"), "Gas, Forced Air, Humidifier"},
		{"SpaceCommas trailing", SpaceCommas(" Full,"), "Full,"},
		{"SpaceCommas empty", SpaceCommas(""), ""},
		{"CompactDimension", CompactDimension(" 12 X 14 "), "12x14"},
		{"JoinDimensions", JoinDimensions("12 X 14", " ", "", "9 x 10"), "12x14, 9x10"},
		{"AgentName both", AgentName(" Jane", "Doe "), "Jane Doe"},
		{"AgentName first only", AgentName("Jane", ""), "Jane"},
		{"AgentName last only", AgentName("", "Doe"), "Doe"},
		{"AgentName none", AgentName(" ", ""), ""},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q; want %q", tt.name, tt.got, tt.want)
		}
	}
}

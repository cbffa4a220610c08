package services

import (
	"reflect"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{250000.50, "250,000"},
		{250000.75, "250,001"},
		{999.4, "999"},
		{1234567, "1,234,567"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatGeneral(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{2.5, "2.5"},
		{0, "0"},
		{10, "10"},
	}
	for _, tt := range tests {
		if got := FormatGeneral(tt.in); got != tt.want {
			t.Errorf("FormatGeneral(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatThousands(t *testing.T) {
	if got := FormatThousands(1850); got != "1,850" {
		t.Errorf("FormatThousands(1850) = %q; want 1,850", got)
	}
	if got := FormatThousands(950); got != "950" {
		t.Errorf("FormatThousands(950) = %q; want 950", got)
	}
}

func TestPhotoURL(t *testing.T) {
	if got := PhotoPath(101, "456", 1); got != "101/Photo456-1.jpeg" {
		t.Errorf("PhotoPath = %q", got)
	}
	if got := PhotoURL("https://img.example.com/", 101, "456", 3); got != "https://img.example.com/101/Photo456-3.jpeg" {
		t.Errorf("PhotoURL = %q", got)
	}
}

func TestPaginateThirtyOneListings(t *testing.T) {
	if got := PageCount(31, 15); got != 3 {
		t.Fatalf("PageCount(31, 15) = %d; want 3", got)
	}

	first := Paginate(31, 15, 1)
	if first.Prev != 0 || first.Next != 2 || first.Offset != 0 {
		t.Errorf("page 1 = %+v; want prev 0, next 2, offset 0", first)
	}
	last := Paginate(31, 15, 3)
	if last.Next != 0 || last.Prev != 2 || last.Offset != 30 {
		t.Errorf("page 3 = %+v; want prev 2, next 0, offset 30", last)
	}
	if !reflect.DeepEqual(last.Window, []int{1, 2, 3}) {
		t.Errorf("page 3 window = %v; want [1 2 3]", last.Window)
	}
}

func TestPaginateSinglePage(t *testing.T) {
	p := Paginate(7, 15, 1)
	if p.Total != 1 || p.Prev != 0 || p.Next != 0 {
		t.Errorf("single page = %+v; want total 1, prev 0, next 0", p)
	}
	if PageCount(0, 15) != 0 {
		t.Errorf("PageCount(0, 15) should be 0")
	}
}

func TestPaginateWindow(t *testing.T) {
	p := Paginate(300, 15, 10)
	want := []int{6, 7, 8, 9, 10, 11, 12, 13, 14}
	if !reflect.DeepEqual(p.Window, want) {
		t.Errorf("window = %v; want %v", p.Window, want)
	}
	if len(Paginate(300, 15, 20).Window) != 5 {
		t.Errorf("window at last page should be clipped to 5 entries")
	}
}

func TestCityPageFile(t *testing.T) {
	if got := CityPageFile("springfield-il", 1); got != "springfield-il.html" {
		t.Errorf("page 1 = %q", got)
	}
	if got := CityPageFile("springfield-il", 3); got != "springfield-il-3.html" {
		t.Errorf("page 3 = %q", got)
	}
}

func TestSplitFeatures(t *testing.T) {
	got := SplitFeatures("Deck, Patio,, ,Porch ")
	want := []string{"Deck", "Patio", "Porch"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitFeatures = %v; want %v", got, want)
	}
	if SplitFeatures("") != nil {
		t.Errorf("SplitFeatures(\"\") should be nil")
	}
}

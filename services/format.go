package services

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders a price rounded half-to-even to whole units, with
// thousands separators and no decimals: 250000.75 -> "250,001".
func FormatCurrency(v float64) string {
	return humanize.Comma(int64(math.RoundToEven(v)))
}

// FormatGeneral renders a count in the shortest form: 2 -> "2", 2.5 -> "2.5".
func FormatGeneral(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatThousands renders an integer with thousands separators.
func FormatThousands(n int) string {
	return humanize.Comma(int64(n))
}

// PhotoPath is the relative path of a listing photo. Index 1 is the
// primary photo.
func PhotoPath(mlsID int64, mlsPropertyID string, index int) string {
	return fmt.Sprintf("%d/Photo%s-%d.jpeg", mlsID, mlsPropertyID, index)
}

// PhotoURL prefixes a photo path with base, which may be empty.
func PhotoURL(base string, mlsID int64, mlsPropertyID string, index int) string {
	return base + PhotoPath(mlsID, mlsPropertyID, index)
}

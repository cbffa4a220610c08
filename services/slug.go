package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugDisallowed = regexp.MustCompile(`[^A-Za-z0-9\- ]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slug builds the SEO slug for a listing page:
//
//	lower(address) "-" lower(city ", " state " " zip) "-" mlsID mlsPropertyID
//
// with everything outside [A-Za-z0-9- ] removed, whitespace runs turned into
// single hyphens and hyphen runs collapsed. The result is not guaranteed
// unique; callers treat it as a soft key.
func Slug(address, city, state, zip string, mlsID int64, mlsPropertyID string) string {
	cityStateZip := city + ", " + state + " " + zip
	return cleanSlug(strings.ToLower(address) + "-" + strings.ToLower(cityStateZip) + "-" +
		strconv.FormatInt(mlsID, 10) + mlsPropertyID)
}

// CitySlug builds the slug used for a city's listing pages, e.g.
// "springfield-il" for Springfield, IL.
func CitySlug(city, state string) string {
	return cleanSlug(strings.ToLower(city) + "-" + strings.ToLower(state))
}

func cleanSlug(s string) string {
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(strings.ToLower(s), "-")
}

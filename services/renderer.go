package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"homesnacks-cycle/models"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/templates"
	"homesnacks-cycle/utils"
)

// Output sub-directories under the site root.
const (
	LocationsDir  = "locations"
	PropertiesDir = "properties"
)

// slideCount is the number of carousel indicator slots after the first.
const slideCount = 14

// RenderConfig controls page assembly and output placement.
type RenderConfig struct {
	OutputDir        string
	HomePageFile     string
	PhotoBaseURL     string
	CityPageSize     int
	DetailBatchSize  int
	TopCityLimit     int
	CarouselLimit    int
	CarouselMinPrice float64
}

// Listing is the display form of a property shared by every page family.
type Listing struct {
	Property  *models.Property
	Slug      string
	Address   string
	CityState string
	Price     string
	PhotoURL  string
	Beds      string
	Baths     string
	Sqft      string
}

// CityLink is one entry of a city directory.
type CityLink struct {
	CityState     string
	Slug          string
	PropertyCount int
}

// HomePage is the view model of the site landing page.
type HomePage struct {
	TopCities    []CityLink
	AllCities    []CityLink
	Carousel     []Listing
	SlideIndexes []int
}

// CityPage is the view model of one page of a city's listings.
type CityPage struct {
	City          *models.City
	CityState     string
	Slug          string
	PropertyCount int
	Page          Page
	AllPages      []int
	Properties    []Listing
}

// PageFile is the file name of page n of this city.
func (c CityPage) PageFile(n int) string {
	return CityPageFile(c.Slug, n)
}

// DetailPage is the view model of a single listing page.
type DetailPage struct {
	Property         *models.Property
	Listing          Listing
	CitySlug         string
	RoomsTotal       string
	FullBaths        string
	HalfBaths        string
	PhotoIndexes     []int
	Photos           []string
	ExteriorFeatures []string
	Nearby           []Listing
}

// RenderStats counts the files written by one generation pass.
type RenderStats struct {
	HomePages     int
	CityPages     int
	PropertyPages int
}

func (s RenderStats) String() string {
	return fmt.Sprintf("home=%d cities=%d properties=%d", s.HomePages, s.CityPages, s.PropertyPages)
}

// Renderer writes the static site from the current canonical data. It never
// mutates the database.
type Renderer struct {
	site   storage.SiteReader
	nearby *NearbyResolver
	cfg    RenderConfig
	logger *utils.Logger

	home     *template.Template
	city     *template.Template
	property *template.Template
}

// NewRenderer parses the page templates from tmplFS. A nil tmplFS selects the
// embedded defaults.
func NewRenderer(site storage.SiteReader, nearby *NearbyResolver, tmplFS fs.FS, cfg RenderConfig, logger *utils.Logger) (*Renderer, error) {
	if tmplFS == nil {
		tmplFS = templates.FS
	}
	if cfg.CityPageSize <= 0 {
		cfg.CityPageSize = 15
	}
	if cfg.DetailBatchSize <= 0 {
		cfg.DetailBatchSize = 100
	}

	r := &Renderer{site: site, nearby: nearby, cfg: cfg, logger: logger}
	for name, dst := range map[string]**template.Template{
		templates.Home:     &r.home,
		templates.City:     &r.city,
		templates.Property: &r.property,
	} {
		t, err := template.ParseFS(tmplFS, name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		*dst = t
	}
	return r, nil
}

// RenderAll writes the home page, every city page and every detail page.
func (r *Renderer) RenderAll(ctx context.Context) (RenderStats, error) {
	var stats RenderStats

	if err := r.RenderHome(ctx); err != nil {
		return stats, err
	}
	stats.HomePages = 1

	n, err := r.RenderCities(ctx)
	stats.CityPages = n
	if err != nil {
		return stats, err
	}

	n, err = r.RenderDetails(ctx)
	stats.PropertyPages = n
	return stats, err
}

// RenderHome writes the landing page.
func (r *Renderer) RenderHome(ctx context.Context) error {
	r.logger.Info("[generate] Building home page")

	top, err := r.site.TopCities(ctx, r.cfg.TopCityLimit)
	if err != nil {
		return err
	}
	all, err := r.site.ActiveCities(ctx)
	if err != nil {
		return err
	}
	carousel, err := r.site.CarouselProperties(ctx, r.cfg.CarouselMinPrice, r.cfg.CarouselLimit)
	if err != nil {
		return err
	}

	page := HomePage{
		TopCities:    cityLinks(top),
		AllCities:    cityLinks(all),
		Carousel:     r.listings(carousel),
		SlideIndexes: sequence(slideCount),
	}
	return r.write(r.home, filepath.Join(r.cfg.OutputDir, r.cfg.HomePageFile), page)
}

// RenderCities writes every page of every active city and returns the number
// of files written. Page counts come from the cached city property count.
func (r *Renderer) RenderCities(ctx context.Context) (int, error) {
	r.logger.Info("[generate] Building city pages")

	cities, err := r.site.ActiveCities(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, c := range cities {
		slug := CitySlug(c.Name, c.State)
		total := PageCount(c.PropertyCount, r.cfg.CityPageSize)
		if total > 1 {
			r.logger.Debug("[generate] %s has %d properties on %d pages", c.Name, c.PropertyCount, total)
		}

		for n := 1; n <= total; n++ {
			nav := Paginate(c.PropertyCount, r.cfg.CityPageSize, n)
			props, err := r.site.CityProperties(ctx, c.Name, c.State, nav.Offset, r.cfg.CityPageSize)
			if err != nil {
				return written, err
			}

			page := CityPage{
				City:          c,
				CityState:     c.Name + ", " + c.State,
				Slug:          slug,
				PropertyCount: c.PropertyCount,
				Page:          nav,
				AllPages:      sequence(total),
				Properties:    r.listings(props),
			}
			path := filepath.Join(r.cfg.OutputDir, LocationsDir, CityPageFile(slug, n))
			if err := r.write(r.city, path, page); err != nil {
				return written, err
			}
			written++
		}
	}

	r.logger.Info("[generate] Wrote %d city pages for %d cities", written, len(cities))
	return written, nil
}

// RenderDetails writes one page per non-hidden property, reading properties
// in batches, and returns the number of files written.
func (r *Renderer) RenderDetails(ctx context.Context) (int, error) {
	total, err := r.site.CountVisibleProperties(ctx)
	if err != nil {
		return 0, err
	}
	batches := PageCount(total, r.cfg.DetailBatchSize)
	r.logger.Info("[generate] Building %d property pages in %d batches", total, batches)

	written := 0
	for b := 0; b < batches; b++ {
		props, err := r.site.VisibleProperties(ctx, b*r.cfg.DetailBatchSize, r.cfg.DetailBatchSize)
		if err != nil {
			return written, err
		}
		r.logger.Debug("[generate] Property batch %d of %d (%d rows)", b+1, batches, len(props))

		for _, p := range props {
			page, err := r.detailPage(ctx, p)
			if err != nil {
				return written, err
			}
			path := filepath.Join(r.cfg.OutputDir, PropertiesDir, p.SEOSlug+".html")
			if err := r.write(r.property, path, page); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

func (r *Renderer) detailPage(ctx context.Context, p *models.Property) (DetailPage, error) {
	nearby, err := r.nearby.Resolve(ctx, p)
	if err != nil {
		return DetailPage{}, err
	}

	indexes := sequence(p.PhotoCount)
	photos := make([]string, len(indexes))
	for i, n := range indexes {
		photos[i] = PhotoURL(r.cfg.PhotoBaseURL, p.MLSID, p.MLSPropertyID, n)
	}

	return DetailPage{
		Property:         p,
		Listing:          r.listing(p),
		CitySlug:         CitySlug(p.City, p.State),
		RoomsTotal:       FormatGeneral(p.RoomsTotal),
		FullBaths:        FormatGeneral(p.BathroomsFull),
		HalfBaths:        FormatGeneral(p.BathroomsHalf),
		PhotoIndexes:     indexes,
		Photos:           photos,
		ExteriorFeatures: SplitFeatures(p.ExteriorFeatures),
		Nearby:           r.listings(nearby),
	}, nil
}

func (r *Renderer) listing(p *models.Property) Listing {
	return Listing{
		Property:  p,
		Slug:      p.SEOSlug,
		Address:   p.AddressLine1,
		CityState: p.City + ", " + p.State,
		Price:     FormatCurrency(p.Price),
		PhotoURL:  PhotoURL(r.cfg.PhotoBaseURL, p.MLSID, p.MLSPropertyID, 1),
		Beds:      FormatGeneral(p.BedroomsTotal),
		Baths:     FormatGeneral(p.BathroomsTotal),
		Sqft:      FormatThousands(p.Size),
	}
}

func (r *Renderer) listings(props []*models.Property) []Listing {
	out := make([]Listing, len(props))
	for i, p := range props {
		out[i] = r.listing(p)
	}
	return out
}

// write renders data into path, creating parent directories. The file is
// written in place.
func (r *Renderer) write(t *template.Template, path string, data any) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CityPageFile is the file name of page n of a city: page 1 has no suffix.
func CityPageFile(slug string, n int) string {
	if n > 1 {
		return slug + "-" + strconv.Itoa(n) + ".html"
	}
	return slug + ".html"
}

// SplitFeatures splits comma-separated feature text into trimmed,
// non-empty items.
func SplitFeatures(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func cityLinks(cities []*models.City) []CityLink {
	out := make([]CityLink, len(cities))
	for i, c := range cities {
		out[i] = CityLink{
			CityState:     c.Name + ", " + c.State,
			Slug:          CitySlug(c.Name, c.State),
			PropertyCount: c.PropertyCount,
		}
	}
	return out
}

// sequence returns 1..n.
func sequence(n int) []int {
	out := make([]int, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

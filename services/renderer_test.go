package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homesnacks-cycle/models"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/testutil"
)

func newTestRenderer(t *testing.T, s *storage.SQLStore) (*Renderer, string) {
	t.Helper()
	out := t.TempDir()
	cfg := RenderConfig{
		OutputDir:        out,
		HomePageFile:     "real-estate.html",
		PhotoBaseURL:     "https://img.example.com/",
		CityPageSize:     15,
		DetailBatchSize:  2,
		TopCityLimit:     30,
		CarouselLimit:    15,
		CarouselMinPrice: 100000,
	}
	r, err := NewRenderer(s, NewNearbyResolver(s, 4), nil, cfg, newTestLogger())
	require.NoError(t, err)
	return r, out
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRenderCityPagesForThirtyOneListings(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.AddCity(t, s, "Springfield", "IL", 31)
	for i := 0; i < 31; i++ {
		p := testutil.Property(1, fmt.Sprintf("p%02d", i))
		p.DaysOnMarket = i
		testutil.InsertProperty(t, s, p)
	}

	r, out := newTestRenderer(t, s)
	n, err := r.RenderCities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	dir := filepath.Join(out, LocationsDir)
	for _, name := range []string{"springfield-il.html", "springfield-il-2.html", "springfield-il-3.html"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "springfield-il-1.html"))

	first := readFile(t, filepath.Join(dir, "springfield-il.html"))
	assert.NotContains(t, first, `rel="prev"`)
	assert.Contains(t, first, `href="springfield-il-2.html"`)

	last := readFile(t, filepath.Join(dir, "springfield-il-3.html"))
	assert.NotContains(t, last, `rel="next"`)
	assert.Equal(t, 1, strings.Count(last, `class="price"`), "one listing on the last page")
}

func TestRenderHomePage(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.AddCity(t, s, "Springfield", "IL", 2)
	testutil.AddCity(t, s, "Peoria", "IL", 9)

	visible := testutil.Property(1, "carousel")
	visible.Price = 350000
	visible.PhotoCount = 4
	testutil.InsertProperty(t, s, visible)

	r, out := newTestRenderer(t, s)
	require.NoError(t, r.RenderHome(context.Background()))

	html := readFile(t, filepath.Join(out, "real-estate.html"))
	assert.Contains(t, html, `locations/peoria-il.html`)
	assert.Contains(t, html, `$350,000`)
	assert.Contains(t, html, `https://img.example.com/1/Photocarousel-1.jpeg`)
	assert.Less(t, strings.Index(html, "locations/peoria-il.html"), strings.Index(html, "locations/springfield-il.html"),
		"top cities ranked by count")
	assert.Equal(t, 15, strings.Count(html, "data-slide-to="))
}

func TestRenderDetailPages(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	subject := testutil.Property(1, "subject")
	subject.PhotoCount = 3
	subject.ExteriorFeatures = "Deck,Patio, ,Porch"
	subject.BathroomsFull, subject.BathroomsHalf, subject.RoomsTotal = 2, 0, 7
	testutil.InsertProperty(t, s, subject)

	neighbour := testutil.Property(1, "neighbour")
	testutil.InsertProperty(t, s, neighbour)

	third := testutil.Property(1, "third")
	third.BedroomsTotal = 5
	testutil.InsertProperty(t, s, third)

	hidden := testutil.Property(1, "hidden")
	hidden.Status = models.PropertyHidden
	testutil.InsertProperty(t, s, hidden)

	r, out := newTestRenderer(t, s)
	n, err := r.RenderDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "hidden listings get no page")

	dir := filepath.Join(out, PropertiesDir)
	assert.NoFileExists(t, filepath.Join(dir, hidden.SEOSlug+".html"))

	html := readFile(t, filepath.Join(dir, subject.SEOSlug+".html"))
	assert.Contains(t, html, "Photosubject-3.jpeg")
	assert.Contains(t, html, "<li>Patio</li>")
	assert.Contains(t, html, "<li>Porch</li>")
	assert.Contains(t, html, "../locations/springfield-il.html")
	assert.Contains(t, html, neighbour.SEOSlug+".html", "nearby listing linked")
	assert.NotContains(t, html, third.SEOSlug+".html", "bedroom mismatch excluded")
}

func TestRenderAllWithTemplateOverride(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.AddCity(t, s, "Springfield", "IL", 1)
	testutil.InsertProperty(t, s, testutil.Property(1, "only"))

	tmpl := fstest.MapFS{
		"home.html":     {Data: []byte(`home {{len .AllCities}}`)},
		"city.html":     {Data: []byte(`city {{.Slug}} {{.Page.Number}}/{{.Page.Total}}`)},
		"property.html": {Data: []byte(`property {{.Listing.Slug}}`)},
	}
	out := t.TempDir()
	r, err := NewRenderer(s, NewNearbyResolver(s, 4), tmpl, RenderConfig{OutputDir: out, HomePageFile: "index.html"}, newTestLogger())
	require.NoError(t, err)

	stats, err := r.RenderAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RenderStats{HomePages: 1, CityPages: 1, PropertyPages: 1}, stats)

	assert.Equal(t, "home 1", readFile(t, filepath.Join(out, "index.html")))
	assert.Equal(t, "city springfield-il 1/1", readFile(t, filepath.Join(out, LocationsDir, "springfield-il.html")))
}

func TestNewRendererMissingTemplate(t *testing.T) {
	s := testutil.NewStore(t)
	_, err := NewRenderer(s, NewNearbyResolver(s, 4), fstest.MapFS{}, RenderConfig{}, newTestLogger())
	assert.Error(t, err)
}

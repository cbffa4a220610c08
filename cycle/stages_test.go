package cycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homesnacks-cycle/config"
	"homesnacks-cycle/models"
	"homesnacks-cycle/services"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/testutil"
	"homesnacks-cycle/utils"
)

func testRunContext(dc *models.DataCycle) *RunContext {
	if dc == nil {
		dc = &models.DataCycle{ID: 1, RunKey: "test-run"}
	}
	return &RunContext{Cycle: dc, Step: &models.DataCycleStep{}, Logger: utils.Discard()}
}

func stagedRow(mlsID, number, price string) *models.SourceRow {
	return &models.SourceRow{
		MLSID: mlsID, MLSNumber: number,
		StreetNumber: "10", StreetName: "oak ave",
		City: "springfield", State: "il", ZipCode: "62704",
		ListPrice: price, Bedrooms: "3", Bathrooms: "2",
		DaysOnMarket: "5", PhotoCount: "2", Size: "1400",
	}
}

func newConvertStage(s *storage.SQLStore, w storage.WarningWriter) *ConvertStage {
	logger := utils.Discard()
	return &ConvertStage{
		Staging:    s,
		Normalizer: services.NewNormalizer(logger),
		Reconciler: services.NewReconciler(s, logger),
		Warnings:   w,
	}
}

type memWarnings struct {
	got []models.FieldWarning
}

func (m *memWarnings) WriteWarnings(_ int64, w []models.FieldWarning) error {
	m.got = append(m.got, w...)
	return nil
}
func (m *memWarnings) Close() error { return nil }

func TestConvertIsIdempotent(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	testutil.StageRow(t, s, stagedRow("1", "A1", "100000"))
	testutil.StageRow(t, s, stagedRow("1", "A2", "N/A"))
	testutil.StageRow(t, s, stagedRow("2", "B1", "300000"))

	stage := newConvertStage(s, nil)

	res, err := stage.Run(ctx, testRunContext(nil))
	require.NoError(t, err)
	assert.Equal(t, models.StatusComplete, res.Status)
	assert.Contains(t, res.Notes, "inserted=3 updated=0 errors=0")
	assert.Contains(t, res.Notes, "slugs=3")

	first, err := s.FindByNaturalKey(ctx, 1, "A2")
	require.NoError(t, err)

	res, err = stage.Run(ctx, testRunContext(nil))
	require.NoError(t, err)
	assert.Contains(t, res.Notes, "inserted=0 updated=3 errors=0")

	n, err := s.CountProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	second, err := s.FindByNaturalKey(ctx, 1, "A2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, first.SEOSlug, second.SEOSlug)
	assert.Equal(t, first.AddressLine1, second.AddressLine1)
}

func TestConvertUpdatesStalePrice(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	stale := testutil.Property(101, "456")
	stale.Price = 200000
	testutil.InsertProperty(t, s, stale)

	row := stagedRow("101", "456", "250000.50")
	row.Bedrooms = "2"
	testutil.StageRow(t, s, row)

	res, err := newConvertStage(s, nil).Run(ctx, testRunContext(nil))
	require.NoError(t, err)
	assert.Contains(t, res.Notes, "inserted=0 updated=1")

	n, err := s.CountProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.FindByNaturalKey(ctx, 101, "456")
	require.NoError(t, err)
	assert.InDelta(t, 250000.50, got.Price, 0.001)
	assert.Equal(t, 2.0, got.BedroomsTotal)
}

func TestConvertSkipsAndReportsBadRows(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	testutil.StageRow(t, s, stagedRow("MRED", "X1", "1"))
	testutil.StageRow(t, s, stagedRow("1", "ok", "bad-price"))
	badState := stagedRow("1", "spelled-out", "1")
	badState.State = "illinois"
	testutil.StageRow(t, s, badState)
	longZip := stagedRow("1", "zip", "1")
	longZip.ZipCode = "62704-1234-99"
	testutil.StageRow(t, s, longZip)

	w := &memWarnings{}
	res, err := newConvertStage(s, w).Run(ctx, testRunContext(nil))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleteWithErrors, res.Status)
	assert.Contains(t, res.Notes, "inserted=2 updated=0 errors=2")

	fields := map[string]string{}
	for _, fw := range w.got {
		fields[fw.Field] = fw.RawValue
	}
	assert.Equal(t, "bad-price", fields["list_price"])
	assert.Equal(t, "62704-1234-99", fields["zip_code"])
}

func TestPrepareSyncsRegistry(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	stage := &PrepareStage{MLS: s, Sources: []config.MLSSource{
		{Code: "MRED", Name: "Midwest Real Estate Data"},
		{Code: "CAR", Name: "Central Area Realtors"},
	}}

	for i := 0; i < 2; i++ {
		res, err := stage.Run(ctx, testRunContext(nil))
		require.NoError(t, err)
		assert.Contains(t, res.Notes, "mls_synced=2")
	}

	all, err := s.ListMLS(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDownloadCountsStagedRows(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	m := &models.MLS{Code: "MRED", Name: "Midwest"}
	require.NoError(t, s.UpsertMLS(ctx, m))
	require.Equal(t, int64(1), m.ID)

	testutil.StageRow(t, s, stagedRow("1", "a", "1"))
	testutil.StageRow(t, s, stagedRow("1", "b", "1"))
	testutil.StageRow(t, s, stagedRow("9", "c", "1"))

	res, err := (&DownloadStage{MLS: s, Staging: s}).Run(ctx, testRunContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "MRED=2 unregistered=1", res.Notes)
}

func TestGenerateStageWritesSite(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.AddCity(t, s, "Springfield", "IL", 1)
	p := testutil.InsertProperty(t, s, testutil.Property(1, "gen"))

	out := t.TempDir()
	r, err := services.NewRenderer(s, services.NewNearbyResolver(s, 4), nil,
		services.RenderConfig{OutputDir: out, HomePageFile: "real-estate.html"}, utils.Discard())
	require.NoError(t, err)

	res, err := (&GenerateStage{Renderer: r}).Run(context.Background(), testRunContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "home=1 cities=1 properties=1", res.Notes)
	assert.FileExists(t, filepath.Join(out, "real-estate.html"))
	assert.FileExists(t, filepath.Join(out, services.PropertiesDir, p.SEOSlug+".html"))
}

type recordingPublisher struct {
	keys  []string
	fails int
}

func (r *recordingPublisher) PutFile(_ context.Context, key, _, _ string) error {
	if r.fails > 0 {
		r.fails--
		return errors.New("temporary failure")
	}
	r.keys = append(r.keys, key)
	return nil
}
func (r *recordingPublisher) Target() string { return "memory" }

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCleanupPrunesAndPublishes(t *testing.T) {
	s := testutil.NewStore(t)
	live := testutil.InsertProperty(t, s, testutil.Property(1, "live"))

	out := t.TempDir()
	props := filepath.Join(out, services.PropertiesDir)
	writeFile(t, filepath.Join(out, "real-estate.html"))
	writeFile(t, filepath.Join(props, live.SEOSlug+".html"))
	writeFile(t, filepath.Join(props, "gone-for-good.html"))

	pub := &recordingPublisher{fails: 1}
	stage := &CleanupStage{
		Site:      s,
		OutputDir: out,
		Prune:     true,
		Publisher: pub,
		Prefix:    "site",
		Retry:     &utils.RetryConfig{MaxAttempts: 2},
	}

	res, err := stage.Run(context.Background(), testRunContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "pruned=1 published=2", res.Notes)
	assert.NoFileExists(t, filepath.Join(props, "gone-for-good.html"))

	sort.Strings(pub.keys)
	assert.Equal(t, []string{"site/properties/" + live.SEOSlug + ".html", "site/real-estate.html"}, pub.keys)
}

func TestCleanupNoop(t *testing.T) {
	res, err := (&CleanupStage{}).Run(context.Background(), testRunContext(nil))
	require.NoError(t, err)
	assert.Equal(t, "noop", res.Notes)
}

package cycle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"homesnacks-cycle/config"
	"homesnacks-cycle/models"
	"homesnacks-cycle/services"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/utils"
)

// PrepareStage syncs the configured MLS registry. The orchestrator has
// already created the cycle by the time it runs.
type PrepareStage struct {
	MLS     storage.MLSStore
	Sources []config.MLSSource
}

func (s *PrepareStage) ID() models.StepID { return models.StepPrepare }

func (s *PrepareStage) Run(ctx context.Context, rc *RunContext) (Result, error) {
	for _, src := range s.Sources {
		m := &models.MLS{Code: src.Code, Name: src.Name, RetsURL: src.RetsURL, BusinessURL: src.BusinessURL}
		if err := s.MLS.UpsertMLS(ctx, m); err != nil {
			return Result{}, err
		}
		rc.Logger.Debug("[prepare] MLS %s registered as id %d", m.Code, m.ID)
	}
	return Result{Notes: fmt.Sprintf("run=%s mls_synced=%d", rc.Cycle.RunKey, len(s.Sources))}, nil
}

// DownloadStage enumerates registered feeds and reports how many staged rows
// each one has. Acquiring the feed files happens outside this program.
type DownloadStage struct {
	MLS     storage.MLSStore
	Staging storage.StagingReader
}

func (s *DownloadStage) ID() models.StepID { return models.StepDownload }

func (s *DownloadStage) Run(ctx context.Context, rc *RunContext) (Result, error) {
	feeds, err := s.MLS.ListMLS(ctx)
	if err != nil {
		return Result{}, err
	}
	counts, err := s.Staging.CountStagedByMLS(ctx)
	if err != nil {
		return Result{}, err
	}

	notes := make([]string, 0, len(feeds)+1)
	for _, m := range feeds {
		key := strconv.FormatInt(m.ID, 10)
		rc.Logger.Info("[download] MLS %s (%d): %d staged rows", m.Code, m.ID, counts[key])
		notes = append(notes, fmt.Sprintf("%s=%d", m.Code, counts[key]))
		delete(counts, key)
	}

	unregistered := 0
	for id, n := range counts {
		rc.Logger.Warn("[download] %d staged rows reference unregistered MLS id %q", n, id)
		unregistered += n
	}
	if unregistered > 0 {
		notes = append(notes, fmt.Sprintf("unregistered=%d", unregistered))
	}
	return Result{Notes: strings.Join(notes, " ")}, nil
}

// ConvertStage normalises every usable staging row and upserts it into the
// canonical property table.
type ConvertStage struct {
	Staging    storage.StagingReader
	Normalizer *services.Normalizer
	Reconciler *services.Reconciler
	// Warnings receives field warnings when set.
	Warnings storage.WarningWriter
}

func (s *ConvertStage) ID() models.StepID { return models.StepConvert }

func (s *ConvertStage) Run(ctx context.Context, rc *RunContext) (Result, error) {
	rows, err := s.Staging.StagingRows(ctx)
	if err != nil {
		return Result{}, err
	}
	rc.Logger.Info("[convert] %d staged rows to convert", len(rows))

	var inserted, updated, failed, warned int
	slugs := utils.NewKeySet()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p, warnings, err := s.Normalizer.Normalize(row)
		if err != nil {
			rc.Logger.Error("[convert] Skipping row: %v", err)
			failed++
			continue
		}

		if len(warnings) > 0 {
			warned += len(warnings)
			if s.Warnings != nil {
				if err := s.Warnings.WriteWarnings(rc.Cycle.ID, warnings); err != nil {
					return Result{}, fmt.Errorf("write field warnings: %w", err)
				}
			}
		}

		if !slugs.Add(p.SEOSlug) {
			rc.Logger.Warn("[convert] Slug %s is shared by more than one listing (%d/%s)",
				p.SEOSlug, p.MLSID, p.MLSPropertyID)
		}

		outcome, err := s.Reconciler.Reconcile(ctx, p)
		switch {
		case errors.Is(err, services.ErrLookupFailed):
			rc.Logger.Error("[convert] Skipping %d/%s: %v", p.MLSID, p.MLSPropertyID, err)
			failed++
			continue
		case err != nil:
			return Result{}, err
		}

		if outcome == services.OutcomeInserted {
			inserted++
		} else {
			updated++
		}
	}

	status := models.StatusComplete
	if failed > 0 {
		status = models.StatusCompleteWithErrors
	}
	notes := fmt.Sprintf("inserted=%d updated=%d errors=%d warnings=%d slugs=%d",
		inserted, updated, failed, warned, slugs.Size())
	return Result{Status: status, Notes: notes}, nil
}

// GenerateStage renders the static site.
type GenerateStage struct {
	Renderer *services.Renderer
}

func (s *GenerateStage) ID() models.StepID { return models.StepGenerate }

func (s *GenerateStage) Run(ctx context.Context, rc *RunContext) (Result, error) {
	stats, err := s.Renderer.RenderAll(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Notes: stats.String()}, nil
}

// CleanupStage optionally prunes detail pages of listings that are no longer
// visible and publishes the output tree.
type CleanupStage struct {
	Site      storage.SiteReader
	OutputDir string
	Prune     bool
	// Publisher is nil when publishing is disabled.
	Publisher storage.Publisher
	Prefix    string
	Retry     *utils.RetryConfig
}

func (s *CleanupStage) ID() models.StepID { return models.StepCleanup }

func (s *CleanupStage) Run(ctx context.Context, rc *RunContext) (Result, error) {
	var notes []string

	if s.Prune {
		n, err := s.pruneStale(ctx, rc)
		if err != nil {
			return Result{}, err
		}
		notes = append(notes, fmt.Sprintf("pruned=%d", n))
	}

	if s.Publisher != nil {
		n, err := s.publish(ctx, rc)
		if err != nil {
			return Result{}, err
		}
		notes = append(notes, fmt.Sprintf("published=%d", n))
	}

	if len(notes) == 0 {
		rc.Logger.Info("[cleanup] Nothing to clean up")
		return Result{Notes: "noop"}, nil
	}
	return Result{Notes: strings.Join(notes, " ")}, nil
}

func (s *CleanupStage) pruneStale(ctx context.Context, rc *RunContext) (int, error) {
	slugs, err := s.Site.VisibleSlugs(ctx)
	if err != nil {
		return 0, err
	}
	keep := utils.NewKeySet()
	for _, slug := range slugs {
		keep.Add(slug + ".html")
	}

	dir := filepath.Join(s.OutputDir, services.PropertiesDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".html" || keep.Contains(name) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("remove stale page %s: %w", name, err)
		}
		rc.Logger.Debug("[cleanup] Removed stale page %s", name)
		removed++
	}
	rc.Logger.Info("[cleanup] Removed %d stale property pages", removed)
	return removed, nil
}

func (s *CleanupStage) publish(ctx context.Context, rc *RunContext) (int, error) {
	var files []string
	err := filepath.WalkDir(s.OutputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", s.OutputDir, err)
	}
	sort.Strings(files)

	retry := s.Retry
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}

	rc.Logger.Info("[cleanup] Publishing %d files to %s", len(files), s.Publisher.Target())
	for _, p := range files {
		rel, err := filepath.Rel(s.OutputDir, p)
		if err != nil {
			return 0, err
		}
		key := path.Join(s.Prefix, filepath.ToSlash(rel))
		ctype := contentType(p)
		if err := retry.Do(ctx, "publish "+key, func() error {
			return s.Publisher.PutFile(ctx, key, p, ctype)
		}); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

func contentType(p string) string {
	if ct := mime.TypeByExtension(filepath.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

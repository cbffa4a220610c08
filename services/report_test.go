package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"homesnacks-cycle/models"
)

func sampleSteps(start time.Time) []*models.DataCycleStep {
	at := func(d time.Duration) *time.Time { t := start.Add(d); return &t }
	return []*models.DataCycleStep{
		{ID: 1, StepID: models.StepPrepare, Status: models.StatusComplete, StartedAt: start, FinishedAt: at(time.Second)},
		{ID: 2, StepID: models.StepConvert, Status: models.StatusCompleteWithErrors, StartedAt: start, FinishedAt: at(3 * time.Second), Notes: "inserted=1 updated=0 errors=1 warnings=0"},
		{ID: 3, StepID: models.StepConvert, Status: models.StatusComplete, StartedAt: start, FinishedAt: at(2 * time.Second)},
		{ID: 4, StepID: models.StepGenerate, Status: models.StatusRunning, StartedAt: start},
	}
}

func TestReportGenerate(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewReportService(newTestLogger())
	r := svc.Generate(&models.DataCycle{ID: 9, RunKey: "k"}, sampleSteps(start))

	if r.StepCounts[models.StepConvert] != 2 {
		t.Errorf("convert runs: got %d, want 2", r.StepCounts[models.StepConvert])
	}
	if r.LastByStage[models.StepConvert].ID != 3 {
		t.Errorf("last convert step: got %d, want 3", r.LastByStage[models.StepConvert].ID)
	}
	if len(r.Errored) != 1 || r.Errored[0].ID != 2 {
		t.Errorf("errored steps: got %v, want [2]", r.Errored)
	}
	if r.TotalRuntime != 6*time.Second {
		t.Errorf("TotalRuntime: got %v, want 6s", r.TotalRuntime)
	}
}

func TestReportPrint(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewReportService(newTestLogger())
	dc := &models.DataCycle{ID: 9, RunKey: "run-key-9", StartedAt: start, ConvertStat: models.StatusCompleteWithErrors}

	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(dc, sampleSteps(start)))
	out := buf.String()

	for _, want := range []string{"DATA CYCLE 9", "run-key-9", "Convert", "complete-with-errors", "errors=1", "1 step(s) finished with errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short: got %q", got)
	}
	if got := truncate("a very long note string", 10); got != "a very ..." {
		t.Errorf("truncate long: got %q", got)
	}
}

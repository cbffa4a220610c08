package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"homesnacks-cycle/models"
	"homesnacks-cycle/utils"
)

var (
	headingColor = color.New(color.FgMagenta, color.Bold)
	sectionColor = color.New(color.FgYellow, color.Bold)
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed, color.Bold)
)

// ReportService summarises data cycle runs for operators.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds a report for dc from its step log.
func (s *ReportService) Generate(dc *models.DataCycle, steps []*models.DataCycleStep) *models.CycleReport {
	report := &models.CycleReport{
		Cycle:       dc,
		Steps:       steps,
		StepCounts:  make(map[models.StepID]int),
		LastByStage: make(map[models.StepID]*models.DataCycleStep),
	}

	for _, st := range steps {
		report.StepCounts[st.StepID]++
		report.LastByStage[st.StepID] = st
		if st.Status == models.StatusAbended || st.Status == models.StatusCompleteWithErrors {
			report.Errored = append(report.Errored, st)
		}
		if st.FinishedAt != nil {
			report.TotalRuntime += st.FinishedAt.Sub(st.StartedAt)
		}
	}
	return report
}

// Print writes a human-readable report to w.
func (s *ReportService) Print(w io.Writer, r *models.CycleReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	headingColor.Fprintf(w, "\n%s\n", sep)
	headingColor.Fprintf(w, "  DATA CYCLE %d\n", r.Cycle.ID)
	headingColor.Fprintf(w, "%s\n\n", sep)

	sectionColor.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Run key   : %s\n", r.Cycle.RunKey)
	fmt.Fprintf(w, "  Started   : %s\n", r.Cycle.StartedAt.Format(time.RFC3339))
	if r.Cycle.FinishedAt != nil {
		fmt.Fprintf(w, "  Finished  : %s\n", r.Cycle.FinishedAt.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "  Finished  : -\n")
	}
	fmt.Fprintf(w, "  Step time : %s\n\n", r.TotalRuntime.Round(time.Millisecond))

	sectionColor.Fprintf(w, "  Stages\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, id := range models.AllSteps {
		status := r.Cycle.StageStatus(id)
		fmt.Fprintf(w, "  %d. %-10s ", int(id), id)
		statusColor(status).Fprintf(w, "%-22s", status)
		fmt.Fprintf(w, " runs=%d\n", r.StepCounts[id])
	}
	fmt.Fprintln(w)

	sectionColor.Fprintf(w, "  Step Log\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Steps) == 0 {
		fmt.Fprintf(w, "  No steps recorded\n")
	}
	for _, st := range r.Steps {
		took := "-"
		if st.FinishedAt != nil {
			took = st.FinishedAt.Sub(st.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "  #%-5d %-10s ", st.ID, st.StepID)
		statusColor(st.Status).Fprintf(w, "%-22s", st.Status)
		fmt.Fprintf(w, " %8s  %s\n", took, truncate(st.Notes, 60))
	}

	if len(r.Errored) > 0 {
		fmt.Fprintln(w)
		failColor.Fprintf(w, "  %d step(s) finished with errors\n", len(r.Errored))
	}

	headingColor.Fprintf(w, "\n%s\n\n", sep)
}

func statusColor(s models.JobStatus) *color.Color {
	switch s {
	case models.StatusComplete:
		return okColor
	case models.StatusCompleteWithErrors, models.StatusRunning:
		return warnColor
	case models.StatusAbended:
		return failColor
	}
	return color.New(color.Reset)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

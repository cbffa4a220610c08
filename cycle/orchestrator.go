// Package cycle runs the five ordered data cycle stages and records every
// run and step in the cycle log.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"homesnacks-cycle/models"
	"homesnacks-cycle/storage"
	"homesnacks-cycle/utils"
)

// abendRecordTimeout bounds the write of an abended step after its run
// context is gone.
const abendRecordTimeout = 10 * time.Second

var (
	// ErrNoPriorCycle is returned when stages are requested without Prepare
	// and no earlier run exists to resume.
	ErrNoPriorCycle = errors.New("no prior data cycle to resume")
	// ErrInvalidStep is returned for stage ids outside 1..5.
	ErrInvalidStep = errors.New("invalid step id")
	// ErrNoSteps is returned when the selection names nothing to run.
	ErrNoSteps = errors.New("no steps selected")
)

// RunContext is handed to each stage body. It carries the active run and the
// step record for the stage being executed.
type RunContext struct {
	Cycle  *models.DataCycle
	Step   *models.DataCycleStep
	Logger *utils.Logger
}

// Result is what a stage body reports on success.
type Result struct {
	Status models.JobStatus
	Notes  string
}

// Stage is one executable phase of a data cycle.
type Stage interface {
	ID() models.StepID
	Run(ctx context.Context, rc *RunContext) (Result, error)
}

// Selection names the stages an invocation should run.
type Selection struct {
	Full  bool
	Steps []int
}

// Resolve returns the selected stage ids in ascending order without
// duplicates.
func (s Selection) Resolve() ([]models.StepID, error) {
	if s.Full {
		return append([]models.StepID(nil), models.AllSteps...), nil
	}

	seen := make(map[models.StepID]bool, len(s.Steps))
	var out []models.StepID
	for _, n := range s.Steps {
		id := models.StepID(n)
		if !id.Valid() {
			return nil, fmt.Errorf("%w: %d (want 1-5)", ErrInvalidStep, n)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSteps
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Orchestrator sequences stages against a new or resumed data cycle.
type Orchestrator struct {
	store  storage.CycleStore
	stages map[models.StepID]Stage
	logger *utils.Logger
	now    func() time.Time
	runKey func() string
}

// NewOrchestrator registers stages by their ids.
func NewOrchestrator(store storage.CycleStore, stages []Stage, logger *utils.Logger) *Orchestrator {
	o := &Orchestrator{
		store:  store,
		stages: make(map[models.StepID]Stage, len(stages)),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		runKey: func() string { return uuid.NewString() },
	}
	for _, s := range stages {
		o.stages[s.ID()] = s
	}
	return o
}

// Run executes the selected stages in ascending order. Selecting Prepare
// starts a new cycle; otherwise the most recent cycle is resumed. The first
// stage failure marks that step and stage abended and stops the run.
func (o *Orchestrator) Run(ctx context.Context, sel Selection) (*models.DataCycle, error) {
	steps, err := sel.Resolve()
	if err != nil {
		return nil, err
	}
	for _, id := range steps {
		if _, ok := o.stages[id]; !ok {
			return nil, fmt.Errorf("%w: no stage registered for %s", ErrInvalidStep, id)
		}
	}

	dc, err := o.activeCycle(ctx, steps[0] == models.StepPrepare)
	if err != nil {
		return nil, err
	}

	for _, id := range steps {
		if err := o.runStage(ctx, dc, o.stages[id]); err != nil {
			return dc, err
		}
	}
	return dc, nil
}

func (o *Orchestrator) activeCycle(ctx context.Context, fresh bool) (*models.DataCycle, error) {
	if fresh {
		dc, err := o.store.CreateCycle(ctx, o.runKey(), o.now())
		if err != nil {
			return nil, err
		}
		o.logger.Info("[cycle] Data cycle %d created (run %s)", dc.ID, dc.RunKey)
		return dc, nil
	}

	dc, err := o.store.LatestCycle(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoPriorCycle
	}
	if err != nil {
		return nil, err
	}
	o.logger.Info("[cycle] Resuming data cycle %d (run %s)", dc.ID, dc.RunKey)
	return dc, nil
}

func (o *Orchestrator) runStage(ctx context.Context, dc *models.DataCycle, stage Stage) error {
	id := stage.ID()

	step, err := o.store.StartStep(ctx, dc.ID, id, o.now())
	if err != nil {
		return err
	}
	if err := o.setStageStatus(ctx, dc, id, models.StatusRunning); err != nil {
		return err
	}
	o.logger.Info("[cycle] Step %d (%s) started for data cycle %d (step_id=%d)", int(id), id, dc.ID, step.ID)

	rc := &RunContext{Cycle: dc, Step: step, Logger: o.logger}
	res, runErr := stage.Run(ctx, rc)
	if runErr != nil {
		o.logger.Error("[cycle] Step %d (%s) abended: %v", int(id), id, runErr)
		// The stage may have failed because ctx was cancelled; the abend must still land.
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abendRecordTimeout)
		_ = o.finish(recordCtx, dc, step, models.StatusAbended, runErr.Error())
		cancel()
		return fmt.Errorf("%s stage: %w", id, runErr)
	}

	if !res.Status.Finished() {
		res.Status = models.StatusComplete
	}
	if err := o.finish(ctx, dc, step, res.Status, res.Notes); err != nil {
		return err
	}
	o.logger.Info("[cycle] Step %d (%s) %s %s", int(id), id, res.Status, res.Notes)

	if id == models.StepCleanup {
		at := o.now()
		if err := o.store.FinishCycle(ctx, dc.ID, at); err != nil {
			return err
		}
		dc.FinishedAt = &at
		o.logger.Info("[cycle] Data cycle %d finished", dc.ID)
	}
	return nil
}

// finish records the terminal status on the step and the cycle. Failures are
// logged and returned; on the abend path the caller keeps the stage error.
func (o *Orchestrator) finish(ctx context.Context, dc *models.DataCycle, step *models.DataCycleStep, status models.JobStatus, notes string) error {
	at := o.now()
	if err := o.store.FinishStep(ctx, step.ID, status, at, notes); err != nil {
		o.logger.Error("[cycle] Could not record step %d as %s: %v", step.ID, status, err)
		return err
	}
	step.Status, step.FinishedAt, step.Notes = status, &at, notes
	return o.setStageStatus(ctx, dc, step.StepID, status)
}

func (o *Orchestrator) setStageStatus(ctx context.Context, dc *models.DataCycle, id models.StepID, status models.JobStatus) error {
	if err := o.store.SetStageStatus(ctx, dc.ID, id, status); err != nil {
		o.logger.Error("[cycle] Could not record %s as %s on cycle %d: %v", id, status, dc.ID, err)
		return err
	}
	dc.SetStageStatus(id, status)
	return nil
}

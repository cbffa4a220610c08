package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homesnacks-cycle/models"
)

const (
	selectCycles = `SELECT id, run_key, step1_status, step2_status, step3_status, step4_status,
		step5_status, started_at, finished_at FROM data_cycles`
	selectSteps = `SELECT id, data_cycle_id, step_id, status, started_at, finished_at, notes
		FROM data_cycle_steps`
)

// CreateCycle appends a new run with every stage not started.
func (s *SQLStore) CreateCycle(ctx context.Context, runKey string, startedAt time.Time) (*models.DataCycle, error) {
	dc := &models.DataCycle{RunKey: runKey, StartedAt: startedAt}
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`INSERT INTO data_cycles
		(run_key, step1_status, step2_status, step3_status, step4_status, step5_status, started_at)
		VALUES (?, 0, 0, 0, 0, 0, ?) RETURNING id`), runKey, startedAt).Scan(&dc.ID)
	if err != nil {
		return nil, fmt.Errorf("create data cycle: %w", err)
	}
	return dc, nil
}

// LatestCycle returns the most recently created run, or ErrNotFound.
func (s *SQLStore) LatestCycle(ctx context.Context) (*models.DataCycle, error) {
	var dc models.DataCycle
	if err := s.db.GetContext(ctx, &dc, selectCycles+" ORDER BY id DESC LIMIT 1"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest data cycle: %w", err)
	}
	return &dc, nil
}

// SetStageStatus records the status of one stage on the run row.
func (s *SQLStore) SetStageStatus(ctx context.Context, cycleID int64, step models.StepID, status models.JobStatus) error {
	if !step.Valid() {
		return fmt.Errorf("set stage status: invalid step %d", step)
	}
	query := fmt.Sprintf("UPDATE data_cycles SET step%d_status = ? WHERE id = ?", int(step))
	return s.execOne(ctx, "set stage status", s.db.Rebind(query), status, cycleID)
}

// FinishCycle stamps the run's finish time.
func (s *SQLStore) FinishCycle(ctx context.Context, cycleID int64, at time.Time) error {
	return s.execOne(ctx, "finish data cycle",
		s.db.Rebind("UPDATE data_cycles SET finished_at = ? WHERE id = ?"), at, cycleID)
}

// StartStep appends a running step record for the given run.
func (s *SQLStore) StartStep(ctx context.Context, cycleID int64, step models.StepID, at time.Time) (*models.DataCycleStep, error) {
	st := &models.DataCycleStep{
		DataCycleID: cycleID,
		StepID:      step,
		Status:      models.StatusRunning,
		StartedAt:   at,
	}
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`INSERT INTO data_cycle_steps
		(data_cycle_id, step_id, status, started_at, notes) VALUES (?, ?, ?, ?, '') RETURNING id`),
		cycleID, step, st.Status, at).Scan(&st.ID)
	if err != nil {
		return nil, fmt.Errorf("start step %s for cycle %d: %w", step, cycleID, err)
	}
	return st, nil
}

// FinishStep records a step's terminal status, finish time and notes.
func (s *SQLStore) FinishStep(ctx context.Context, stepID int64, status models.JobStatus, at time.Time, notes string) error {
	return s.execOne(ctx, "finish step",
		s.db.Rebind("UPDATE data_cycle_steps SET status = ?, finished_at = ?, notes = ? WHERE id = ?"),
		status, at, notes, stepID)
}

// CycleSteps returns a run's step log in execution order.
func (s *SQLStore) CycleSteps(ctx context.Context, cycleID int64) ([]*models.DataCycleStep, error) {
	var out []*models.DataCycleStep
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(selectSteps+" WHERE data_cycle_id = ? ORDER BY id"), cycleID); err != nil {
		return nil, fmt.Errorf("cycle steps %d: %w", cycleID, err)
	}
	return out, nil
}

func (s *SQLStore) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

package models

import "time"

// DataCycle is one orchestrator run record holding a status per stage.
type DataCycle struct {
	ID           int64      `db:"id"`
	RunKey       string     `db:"run_key"`
	PrepareStat  JobStatus  `db:"step1_status"`
	DownloadStat JobStatus  `db:"step2_status"`
	ConvertStat  JobStatus  `db:"step3_status"`
	GenerateStat JobStatus  `db:"step4_status"`
	CleanupStat  JobStatus  `db:"step5_status"`
	StartedAt    time.Time  `db:"started_at"`
	FinishedAt   *time.Time `db:"finished_at"`
}

// StageStatus returns the recorded status for the given stage.
func (c *DataCycle) StageStatus(id StepID) JobStatus {
	switch id {
	case StepPrepare:
		return c.PrepareStat
	case StepDownload:
		return c.DownloadStat
	case StepConvert:
		return c.ConvertStat
	case StepGenerate:
		return c.GenerateStat
	case StepCleanup:
		return c.CleanupStat
	}
	return StatusNotStarted
}

// SetStageStatus updates the in-memory status for the given stage.
func (c *DataCycle) SetStageStatus(id StepID, s JobStatus) {
	switch id {
	case StepPrepare:
		c.PrepareStat = s
	case StepDownload:
		c.DownloadStat = s
	case StepConvert:
		c.ConvertStat = s
	case StepGenerate:
		c.GenerateStat = s
	case StepCleanup:
		c.CleanupStat = s
	}
}

// DataCycleStep is the execution record appended each time a stage runs.
type DataCycleStep struct {
	ID          int64      `db:"id"`
	DataCycleID int64      `db:"data_cycle_id"`
	StepID      StepID     `db:"step_id"`
	Status      JobStatus  `db:"status"`
	StartedAt   time.Time  `db:"started_at"`
	FinishedAt  *time.Time `db:"finished_at"`
	Notes       string     `db:"notes"`
}

// CycleReport summarises a data cycle and its step log for display.
type CycleReport struct {
	Cycle        *DataCycle
	Steps        []*DataCycleStep
	StepCounts   map[StepID]int
	Errored      []*DataCycleStep
	LastByStage  map[StepID]*DataCycleStep
	TotalRuntime time.Duration
}

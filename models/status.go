package models

import "fmt"

// JobStatus is the execution state shared by data cycles and their steps.
type JobStatus int

const (
	StatusNotStarted JobStatus = iota
	StatusRunning
	StatusComplete
	StatusCompleteWithErrors
	StatusAbended
)

func (s JobStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusCompleteWithErrors:
		return "complete-with-errors"
	case StatusAbended:
		return "abended"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Finished reports whether the status is terminal.
func (s JobStatus) Finished() bool {
	return s == StatusComplete || s == StatusCompleteWithErrors || s == StatusAbended
}

// StepID identifies one of the five ordered data cycle stages.
type StepID int

const (
	StepPrepare StepID = iota + 1
	StepDownload
	StepConvert
	StepGenerate
	StepCleanup
)

// AllSteps lists every stage in execution order.
var AllSteps = []StepID{StepPrepare, StepDownload, StepConvert, StepGenerate, StepCleanup}

// Valid reports whether id names a known stage.
func (id StepID) Valid() bool {
	return id >= StepPrepare && id <= StepCleanup
}

func (id StepID) String() string {
	switch id {
	case StepPrepare:
		return "Prepare"
	case StepDownload:
		return "Download"
	case StepConvert:
		return "Convert"
	case StepGenerate:
		return "Generate"
	case StepCleanup:
		return "Cleanup"
	default:
		return fmt.Sprintf("Step(%d)", int(id))
	}
}

// PropertyStatus is the listing status of a canonical property.
type PropertyStatus int

const (
	PropertyActive PropertyStatus = iota + 1
	PropertyPending
	PropertySold
	PropertyOffMarket
	PropertyHidden
)

func (s PropertyStatus) String() string {
	switch s {
	case PropertyActive:
		return "Active"
	case PropertyPending:
		return "Pending"
	case PropertySold:
		return "Sold"
	case PropertyOffMarket:
		return "Off Market"
	case PropertyHidden:
		return "Hidden"
	default:
		return fmt.Sprintf("PropertyStatus(%d)", int(s))
	}
}

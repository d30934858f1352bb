package engine

import (
	"errors"
	"fmt"
	"time"
)

var ErrBusy = errors.New("conversion already running")

type State int32

const (
	Ready State = iota
	Converting
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Converting:
		return "Converting..."
	case Finished:
		return "Conversion Finished"
	case Failed:
		return "Conversion Failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Stage names the step of a conversion; a failed Outcome carries the stage it stopped in.
type Stage string

const (
	StageInput     Stage = "input"
	StageRasterize Stage = "rasterize"
	StageRecognize Stage = "recognize"
	StageReport    Stage = "report"
	StageWrite     Stage = "write"
	StageSave      Stage = "save"
)

type Timings struct {
	Rasterize time.Duration
	Recognize time.Duration
	Write     time.Duration
	Total     time.Duration
}

// Outcome is the result of one Run.
type Outcome struct {
	RunID      string
	State      State
	Stage      Stage
	Err        error
	Pages      int
	Paragraphs int
	Output     string
	Report     string
	Timings    Timings
}

func (o Outcome) Succeeded() bool {
	return o.State == Finished && o.Err == nil
}

// String is the status line shown to the user.
func (o Outcome) String() string {
	if o.Succeeded() {
		return "Status: " + Finished.String()
	}
	return fmt.Sprintf("Status: %s (%s): %v", Failed, o.Stage, o.Err)
}

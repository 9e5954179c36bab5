// Package job defines the unit of work flowing through the pipeline and
// its lifecycle state machine.
package job

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/probe"
)

// Strategy selects the transformation applied to a file.
type Strategy string

const (
	StrategyEnhance Strategy = "enhance"
	StrategySplit   Strategy = "split"
)

// State is the lifecycle position of a job. Transitions are strictly
// forward; see Transition.
type State string

const (
	StateDiscovered State = "discovered"
	StateProbed     State = "probed"
	StateEnhancing  State = "enhancing"
	StateSplitting  State = "splitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateArchived   State = "archived"
	StateReported   State = "reported"
)

// transitions is the set of allowed forward edges.
var transitions = map[State][]State{
	StateDiscovered: {StateProbed, StateFailed},
	StateProbed:     {StateEnhancing, StateSplitting, StateFailed},
	StateEnhancing:  {StateSucceeded, StateFailed},
	StateSplitting:  {StateSucceeded, StateFailed},
	StateSucceeded:  {StateArchived, StateReported},
	StateFailed:     {StateReported},
	StateArchived:   {StateReported},
}

// Job is one unit of work: a single source file and the transformation to
// apply to it. OutputPaths are computed once before any process is spawned
// and never renamed mid-flight, so failure cleanup knows exactly which
// files to delete.
type Job struct {
	ID         uuid.UUID
	SourcePath string
	Strategy   Strategy

	// Populated lazily by the probe adapter; zero until probed.
	SizeBytes       int64
	DurationSeconds float64
	Width           int
	Height          int
	BitrateKbps     int64

	OutputPaths []string
	State       State
	Diagnostics string // stderr tail, set only on failure
}

// New creates a job in the discovered state.
func New(sourcePath string, strategy Strategy) *Job {
	return &Job{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		Strategy:   strategy,
		State:      StateDiscovered,
	}
}

// Transition moves the job to next, rejecting any edge not in the forward
// transition set. No state is ever revisited.
func (j *Job) Transition(next State) error {
	for _, allowed := range transitions[j.State] {
		if next == allowed {
			j.State = next
			return nil
		}
	}
	return fmt.Errorf("invalid job transition %s -> %s", j.State, next)
}

// SetProbed records probe results and advances to the probed state. Probe
// data may be partial; zero values stand for unavailable fields.
func (j *Job) SetProbed(info probe.Info) error {
	j.Width = info.Width
	j.Height = info.Height
	j.DurationSeconds = info.DurationSeconds
	j.BitrateKbps = info.BitrateKbps
	return j.Transition(StateProbed)
}

// Fail marks the job failed and captures the diagnostic tail.
func (j *Job) Fail(diagnostics string) {
	j.State = StateFailed
	j.Diagnostics = diagnostics
}

// Terminal reports whether the job has reached an end state for
// processing (succeeded or failed); archival and reporting still follow.
func (j *Job) Terminal() bool {
	return j.State == StateSucceeded || j.State == StateFailed
}

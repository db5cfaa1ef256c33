package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCollectiveParticipation is returned when some worker
// never reached a collective call, so no global result
// could be released.
var ErrCollectiveParticipation = errors.New("collective participation failure")

// errWithheld marks a worker that was told to stop before
// contributing its aggregate.
var errWithheld = errors.New("aggregate withheld")

// A Stage is a step of a worker's run.
type Stage string

const (
	StagePartition Stage = "partition"
	StageObserve   Stage = "observe"
	StageFinalize  Stage = "finalize"
	StageAverage   Stage = "average"
	StageMax       Stage = "max"
	StageMin       Stage = "min"
	StageVariance  Stage = "variance"
	StageDone      Stage = "done"
)

// A StageError records that a worker failed at a stage.
type StageError struct {
	Rank  int
	Stage Stage
	Err   error
}

func (s *StageError) Error() string {
	return fmt.Sprintf("worker %d failed during %s: %v", s.Rank, s.Stage, s.Err)
}

func (s *StageError) Unwrap() error {
	return s.Err
}

// A WorkerStage is the last stage a worker reached.
type WorkerStage struct {
	Rank  int
	Stage Stage
}

// A ParticipationError describes a run in which the
// group stalled because some workers stopped
// participating.
type ParticipationError struct {
	// Time is the virtual time of the stall.
	Time float64

	// Stalled lists the workers that were blocked in a
	// collective, and which one.
	Stalled []WorkerStage

	// Absent lists the workers that exited early.
	Absent []WorkerStage

	// Cause is the underlying simulator error.
	Cause error
}

func (p *ParticipationError) Error() string {
	describe := func(ws []WorkerStage) string {
		parts := make([]string, len(ws))
		for i, w := range ws {
			parts[i] = fmt.Sprintf("worker %d (%s)", w.Rank, w.Stage)
		}
		return strings.Join(parts, ", ")
	}
	msg := fmt.Sprintf("%v at t=%f: stalled: %s", ErrCollectiveParticipation, p.Time,
		describe(p.Stalled))
	if len(p.Absent) > 0 {
		msg += "; absent: " + describe(p.Absent)
	}
	return msg
}

func (p *ParticipationError) Unwrap() []error {
	return []error{ErrCollectiveParticipation, p.Cause}
}

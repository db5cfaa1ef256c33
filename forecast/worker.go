// Package forecast runs the distributed weather forecast:
// every worker summarizes its share of the locations, and
// the group combines the summaries with collective
// reductions.
package forecast

import (
	"sync"

	"go.uber.org/zap"

	"github.com/unixpickle/weather-reduce/collcomm"
	"github.com/unixpickle/weather-reduce/collcomm/allreduce"
	"github.com/unixpickle/weather-reduce/collcomm/reduce"
	"github.com/unixpickle/weather-reduce/partition"
	"github.com/unixpickle/weather-reduce/report"
	"github.com/unixpickle/weather-reduce/stats"
	"github.com/unixpickle/weather-reduce/weather"
)

// GroupContext is a worker's identity within its group.
type GroupContext struct {
	Rank int
	Size int

	// Root is the rank that receives reduce-to-root
	// results and reports the global lines.
	Root int
}

// IsRoot checks if the worker is the designated root.
func (g GroupContext) IsRoot() bool {
	return g.Rank == g.Root
}

// A Result is everything one worker learned in a run.
type Result struct {
	Group        GroupContext
	Partition    partition.Range
	Observations []weather.Observation
	Local        stats.WorkerAggregate

	// Global.Extrema is nil unless Group.IsRoot().
	Global stats.GlobalAggregate
}

// A Worker is one participant in a forecast run.
type Worker struct {
	Group       GroupContext
	Directory   *weather.Directory
	Synthesizer *weather.Synthesizer
	Allreducer  allreduce.Allreducer
	Reducer     reduce.Reducer
	Reporter    report.Reporter
	Log         *zap.Logger

	// Barrier makes every worker rendezvous after each
	// location, so observation lines from the same round
	// are printed together.
	Barrier bool

	// ObservationCost is the virtual time spent on each
	// location.
	ObservationCost float64

	// Withhold makes the worker stop after observing its
	// partition without contributing to any reduction.
	Withhold bool

	progress *progress
}

// Run performs the worker's side of the forecast.
//
// Every worker in the group must call Run with a Comms on
// the same network. Run returns a *StageError if this
// worker cannot take part; in that case no collective has
// been entered by it past the failure point.
func (w *Worker) Run(c *collcomm.Comms) (*Result, error) {
	if w.Log == nil {
		w.Log = zap.NewNop()
	}
	if w.Reporter == nil {
		w.Reporter = report.Nop{}
	}
	g := w.Group
	log := w.Log.With(zap.Int("rank", g.Rank))

	w.setStage(StagePartition)
	part, err := partition.Assign(g.Size, w.Directory.Len(), g.Rank)
	if err != nil {
		return nil, w.fail(StagePartition, err)
	}
	lastPart, err := partition.Assign(g.Size, w.Directory.Len(), g.Size-1)
	if err != nil {
		return nil, w.fail(StagePartition, err)
	}
	log.Debug("assigned partition", zap.Stringer("range", part))

	res := &Result{Group: g, Partition: part}
	acc := stats.NewAccumulator()

	// The last partition is the longest, so it sets the
	// number of barrier rounds for everyone.
	w.setStage(StageObserve)
	for round := 0; round < lastPart.Len(); round++ {
		if i := part.Start + round; i < part.End {
			obs := w.Synthesizer.Observe(w.Directory, i)
			w.Reporter.Observation(g.Rank, obs)
			acc.Add(obs.Temperature)
			res.Observations = append(res.Observations, obs)
			if w.ObservationCost > 0 {
				c.Handle.Sleep(w.ObservationCost)
			}
		}
		if w.Barrier {
			collcomm.Barrier(c)
		}
	}

	w.setStage(StageFinalize)
	local, err := acc.Finalize()
	if err != nil {
		return nil, w.fail(StageFinalize, err)
	}
	res.Local = local
	w.Reporter.WorkerAverage(g.Rank, local.Average)
	log.Debug("finalized local aggregate",
		zap.Int("count", local.Count),
		zap.Float64("average", local.Average),
		zap.Float64("variance", local.Variance))

	if w.Withhold {
		log.Warn("withholding aggregate from the group")
		return nil, w.fail(StageAverage, errWithheld)
	}

	size := float64(g.Size)

	w.setStage(StageAverage)
	avgSum := w.Allreducer.Allreduce(c, []float64{local.Average}, collcomm.Sum)
	res.Global.Average = avgSum[0] / size
	if g.IsRoot() {
		w.Reporter.GlobalAverage(res.Global.Average)
	}

	w.setStage(StageMax)
	maxes := w.Reducer.Reduce(c, []float64{local.Max}, collcomm.Max, g.Root)
	if g.IsRoot() {
		w.Reporter.GlobalMax(maxes[0])
	}

	w.setStage(StageMin)
	mins := w.Reducer.Reduce(c, []float64{local.Min}, collcomm.Min, g.Root)
	if g.IsRoot() {
		w.Reporter.GlobalMin(mins[0])
		res.Global.Extrema = &stats.Extrema{Max: maxes[0], Min: mins[0]}
	}

	w.Reporter.WorkerVariance(g.Rank, local.Variance)
	w.setStage(StageVariance)
	varSum := w.Allreducer.Allreduce(c, []float64{local.Variance}, collcomm.Sum)
	res.Global.Variance = varSum[0] / size
	if g.IsRoot() {
		w.Reporter.GlobalVariance(res.Global.Variance)
	}

	w.setStage(StageDone)
	return res, nil
}

func (w *Worker) setStage(s Stage) {
	if w.progress != nil {
		w.progress.set(w.Group.Rank, s)
	}
}

func (w *Worker) fail(s Stage, err error) error {
	w.setStage(s)
	return &StageError{Rank: w.Group.Rank, Stage: s, Err: err}
}

// progress tracks the stage of every worker so that a
// stalled run can say where each one stopped.
type progress struct {
	lock   sync.Mutex
	stages []Stage
}

func newProgress(n int) *progress {
	return &progress{stages: make([]Stage, n)}
}

func (p *progress) set(rank int, s Stage) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stages[rank] = s
}

func (p *progress) get(rank int) Stage {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.stages[rank]
}

package forecast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unixpickle/weather-reduce/collcomm"
	"github.com/unixpickle/weather-reduce/collcomm/allreduce"
	"github.com/unixpickle/weather-reduce/collcomm/reduce"
	"github.com/unixpickle/weather-reduce/partition"
	"github.com/unixpickle/weather-reduce/report"
	"github.com/unixpickle/weather-reduce/simulator"
	"github.com/unixpickle/weather-reduce/stats"
	"github.com/unixpickle/weather-reduce/weather"
)

const workerNamePrefix = "worker"

// NetworkConfig describes the simulated network between
// workers.
type NetworkConfig struct {
	// Kind is "switched" or "random".
	Kind string

	// Latency is the per-message latency for switched
	// networks, or the maximum delay for random ones.
	Latency float64

	// Rate is the per-node transfer rate, in bytes per
	// virtual second, for switched networks.
	Rate float64

	// RootRate, if non-zero, overrides Rate for the root
	// worker's link.
	RootRate float64
}

// Build creates the network for a set of nodes, where
// nodes[root] is the root worker.
func (n NetworkConfig) Build(nodes []*simulator.Node, root int) (simulator.Network, error) {
	if !finiteNonNegative(n.Latency) {
		return nil, fmt.Errorf("%w: network latency %f", partition.ErrInvalidConfiguration, n.Latency)
	}
	switch n.Kind {
	case "switched", "":
		rate := n.Rate
		if rate == 0 {
			rate = 1e9
		}
		if !finiteNonNegative(rate) || !finiteNonNegative(n.RootRate) {
			return nil, fmt.Errorf("%w: network rate %f (root %f)", partition.ErrInvalidConfiguration,
				rate, n.RootRate)
		}
		switcher := simulator.NewGreedyDropSwitcher(len(nodes), rate)
		if n.RootRate > 0 {
			switcher.SetNodeRate(root, n.RootRate)
		}
		return simulator.NewSwitcherNetwork(switcher, nodes, n.Latency), nil
	case "random":
		return simulator.RandomNetwork{MaxLatency: n.Latency}, nil
	}
	return nil, fmt.Errorf("%w: unknown network kind %q", partition.ErrInvalidConfiguration, n.Kind)
}

// Config is everything needed for one run.
//
// Zero values for Directory, Allreducer, Reducer,
// Reporter, and Log are replaced with defaults.
type Config struct {
	Workers   int
	Root      int
	Directory *weather.Directory

	// Seed drives the synthesizers and the simulator.
	// If 0, the wall clock is used.
	Seed int64

	Barrier         bool
	ObservationCost float64
	Network         NetworkConfig
	Allreducer      allreduce.Allreducer
	Reducer         reduce.Reducer
	Reporter        report.Reporter
	Log             *zap.Logger

	// Withhold lists ranks that stop before the first
	// reduction.
	Withhold []int
}

// An Outcome is the result of a successful run.
type Outcome struct {
	RunID       string
	Results     []*Result
	VirtualTime float64
}

// Global returns the root worker's global aggregate.
func (o *Outcome) Global() stats.GlobalAggregate {
	for _, r := range o.Results {
		if r.Group.IsRoot() {
			return r.Global
		}
	}
	panic("outcome has no root result")
}

// Run executes a forecast with one simulated worker per
// rank.
//
// Configuration problems are reported before any worker
// starts. If any worker fails or stalls, Run returns an
// error describing which workers and stages were involved
// and no Outcome.
func Run(cfg Config) (*Outcome, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := cfg.Log.With(zap.String("run_id", runID))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	loop := simulator.NewEventLoopSeed(seed)
	nodes := simulator.NewNodes(workerNamePrefix, cfg.Workers)
	network, err := cfg.Network.Build(nodes, cfg.Root)
	if err != nil {
		return nil, err
	}

	log.Info("starting run",
		zap.Int("workers", cfg.Workers),
		zap.Int("locations", cfg.Directory.Len()),
		zap.Int64("seed", seed))

	cfg.Reporter.Banner()

	prog := newProgress(cfg.Workers)
	results := make([]*Result, cfg.Workers)
	errs := make([]error, cfg.Workers)
	collcomm.SpawnComms(loop, network, nodes, func(c *collcomm.Comms) {
		rank := c.Index()
		w := &Worker{
			Group:           GroupContext{Rank: rank, Size: cfg.Workers, Root: cfg.Root},
			Directory:       cfg.Directory,
			Synthesizer:     weather.NewSynthesizer(weather.SeedFor(seed, rank)),
			Allreducer:      cfg.Allreducer,
			Reducer:         cfg.Reducer,
			Reporter:        cfg.Reporter,
			Log:             log,
			Barrier:         cfg.Barrier,
			ObservationCost: cfg.ObservationCost,
			Withhold:        withheld(cfg.Withhold, rank),
			progress:        prog,
		}
		results[rank], errs[rank] = w.Run(c)
	})

	loopErr := loop.Run()
	workerErr := errors.Join(errs...)
	if loopErr != nil {
		loopErr = participationError(loopErr, prog, errs)
	}
	if err := errors.Join(workerErr, loopErr); err != nil {
		log.Error("run failed", zap.Error(err))
		return nil, err
	}

	outcome := &Outcome{RunID: runID, Results: results, VirtualTime: loop.Time()}
	checkConsistency(log, outcome)
	log.Info("run finished", zap.Float64("virtual_time", outcome.VirtualTime))
	return outcome, nil
}

func (c Config) withDefaults() Config {
	if c.Directory == nil {
		c.Directory = weather.DefaultDirectory()
	}
	if c.Allreducer == nil {
		c.Allreducer = allreduce.TreeAllreducer{}
	}
	if c.Reducer == nil {
		c.Reducer = reduce.TreeReducer{}
	}
	if c.Reporter == nil {
		c.Reporter = report.Nop{}
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	return c
}

func (c Config) validate() error {
	for rank := 0; rank < max(c.Workers, 1); rank++ {
		if _, err := partition.Assign(c.Workers, c.Directory.Len(), rank); err != nil {
			return &StageError{Rank: rank, Stage: StagePartition, Err: err}
		}
	}
	if c.Root < 0 || c.Root >= c.Workers {
		return fmt.Errorf("%w: root %d outside group of %d", partition.ErrInvalidConfiguration,
			c.Root, c.Workers)
	}
	if !finiteNonNegative(c.ObservationCost) {
		return fmt.Errorf("%w: observation cost %f", partition.ErrInvalidConfiguration,
			c.ObservationCost)
	}
	for _, rank := range c.Withhold {
		if rank < 0 || rank >= c.Workers {
			return fmt.Errorf("%w: withheld rank %d outside group of %d",
				partition.ErrInvalidConfiguration, rank, c.Workers)
		}
	}
	return nil
}

func finiteNonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

func withheld(ranks []int, rank int) bool {
	for _, r := range ranks {
		if r == rank {
			return true
		}
	}
	return false
}

func participationError(err error, prog *progress, errs []error) error {
	res := &ParticipationError{Cause: err}
	var deadlock *simulator.DeadlockError
	if errors.As(err, &deadlock) {
		res.Time = deadlock.Time
		for _, name := range deadlock.Stalled {
			rank, convErr := strconv.Atoi(strings.TrimPrefix(name, workerNamePrefix))
			if convErr != nil {
				continue
			}
			res.Stalled = append(res.Stalled, WorkerStage{Rank: rank, Stage: prog.get(rank)})
		}
	}
	for rank, e := range errs {
		if e != nil {
			res.Absent = append(res.Absent, WorkerStage{Rank: rank, Stage: prog.get(rank)})
		}
	}
	return res
}

// checkConsistency compares the collective results with a
// direct combination of every worker's local aggregate.
func checkConsistency(log *zap.Logger, o *Outcome) {
	locals := make([]stats.WorkerAggregate, len(o.Results))
	for i, r := range o.Results {
		locals[i] = r.Local
	}
	expected, err := stats.Combine(locals, true)
	if err != nil {
		log.Warn("consistency check skipped", zap.Error(err))
		return
	}
	actual := o.Global()
	near := func(x, y float64) bool {
		return math.Abs(x-y) <= 1e-9*math.Max(1, math.Abs(y))
	}
	if !near(actual.Average, expected.Average) || !near(actual.Variance, expected.Variance) ||
		actual.Extrema.Max != expected.Extrema.Max || actual.Extrema.Min != expected.Extrema.Min {
		log.Warn("collective results disagree with direct combination",
			zap.Any("collective", actual), zap.Any("direct", expected))
	} else {
		log.Debug("collective results match direct combination")
	}
}

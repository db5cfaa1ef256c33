package forecast

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/unixpickle/weather-reduce/collcomm/allreduce"
	"github.com/unixpickle/weather-reduce/collcomm/reduce"
	"github.com/unixpickle/weather-reduce/partition"
	"github.com/unixpickle/weather-reduce/report"
	"github.com/unixpickle/weather-reduce/stats"
	"github.com/unixpickle/weather-reduce/weather"
)

func TestRunAlgorithms(t *testing.T) {
	networks := []NetworkConfig{
		{Kind: "switched", Latency: 1e-3, Rate: 1e6},
		{Kind: "random", Latency: 0.5},
	}
	for _, allreducerName := range allreduce.Names {
		for _, reducerName := range reduce.Names {
			for _, network := range networks {
				for _, workers := range []int{1, 2, 3, 4, 10} {
					name := fmt.Sprintf("Allreduce=%s,Reduce=%s,Network=%s,Workers=%d",
						allreducerName, reducerName, network.Kind, workers)
					t.Run(name, func(t *testing.T) {
						allreducer, _ := allreduce.ByName(allreducerName)
						reducer, _ := reduce.ByName(reducerName)
						outcome, err := Run(Config{
							Workers:         workers,
							Barrier:         true,
							ObservationCost: 0.01,
							Network:         network,
							Allreducer:      allreducer,
							Reducer:         reducer,
						})
						if err != nil {
							t.Fatal(err)
						}
						verifyOutcome(t, outcome, 10)
					})
				}
			}
		}
	}
}

func verifyOutcome(t *testing.T, outcome *Outcome, numLocations int) {
	results := outcome.Results
	var totalObs int
	globalMax, globalMin := math.Inf(-1), math.Inf(1)
	var avgSum, varSum float64
	for rank, res := range results {
		if res.Group.Rank != rank {
			t.Errorf("result %d has rank %d", rank, res.Group.Rank)
		}
		if len(res.Observations) != res.Partition.Len() {
			t.Errorf("rank %d: %d observations for %v", rank, len(res.Observations), res.Partition)
		}
		for i, obs := range res.Observations {
			if obs.Index != res.Partition.Start+i {
				t.Errorf("rank %d: observation %d has index %d", rank, i, obs.Index)
			}
			globalMax = math.Max(globalMax, obs.Temperature)
			globalMin = math.Min(globalMin, obs.Temperature)
		}
		totalObs += len(res.Observations)
		avgSum += res.Local.Average
		varSum += res.Local.Variance

		if res.Global.Average != results[0].Global.Average ||
			res.Global.Variance != results[0].Global.Variance {
			t.Errorf("rank %d disagrees on the all-reduced fields", rank)
		}
		if res.Group.IsRoot() != (res.Global.Extrema != nil) {
			t.Errorf("rank %d: root=%v but extrema=%v", rank, res.Group.IsRoot(), res.Global.Extrema)
		}
	}
	if totalObs != numLocations {
		t.Errorf("expected %d observations but got %d", numLocations, totalObs)
	}

	global := outcome.Global()
	n := float64(len(results))
	if math.Abs(global.Average-avgSum/n) > 1e-9 {
		t.Errorf("expected mean of means %f but got %f", avgSum/n, global.Average)
	}
	if math.Abs(global.Variance-varSum/n) > 1e-9 {
		t.Errorf("expected mean of variances %f but got %f", varSum/n, global.Variance)
	}
	if global.Extrema.Max != globalMax || global.Extrema.Min != globalMin {
		t.Errorf("expected extrema %f/%f but got %+v", globalMax, globalMin, global.Extrema)
	}
}

func TestRunMeanOfMeans(t *testing.T) {
	outcome, err := Run(Config{Workers: 3, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	var avgSum float64
	for _, res := range outcome.Results {
		avgSum += res.Local.Average
	}
	if lens := outcome.Results[2].Partition.Len(); lens != 4 {
		t.Fatalf("last worker should own 4 locations but owns %d", lens)
	}
	global := outcome.Global()
	if math.Abs(global.Average-avgSum/3) > 1e-9 {
		t.Errorf("expected %f but got %f", avgSum/3, global.Average)
	}
}

func TestRunBarrierInterleaving(t *testing.T) {
	for _, workers := range []int{2, 3, 5} {
		t.Run(fmt.Sprintf("Workers=%d", workers), func(t *testing.T) {
			rec := &report.Recorder{}
			outcome, err := Run(Config{
				Workers:  workers,
				Barrier:  true,
				Reporter: rec,
				Network:  NetworkConfig{Kind: "random"},
			})
			if err != nil {
				t.Fatal(err)
			}
			lastRound := -1
			for _, e := range rec.Filter(report.ObservationEvent) {
				round := e.Observation.Index - outcome.Results[e.Rank].Partition.Start
				if round < lastRound {
					t.Fatalf("observation from round %d printed after round %d", round, lastRound)
				}
				lastRound = round
			}
		})
	}
}

func TestRunReportOrder(t *testing.T) {
	rec := &report.Recorder{}
	if _, err := Run(Config{Workers: 4, Root: 1, Barrier: true, Reporter: rec}); err != nil {
		t.Fatal(err)
	}
	var globalKinds []report.EventKind
	for _, e := range rec.Events() {
		switch e.Kind {
		case report.GlobalAverageEvent, report.GlobalMaxEvent, report.GlobalMinEvent,
			report.GlobalVarianceEvent:
			globalKinds = append(globalKinds, e.Kind)
		}
	}
	expected := []report.EventKind{report.GlobalAverageEvent, report.GlobalMaxEvent,
		report.GlobalMinEvent, report.GlobalVarianceEvent}
	if fmt.Sprint(globalKinds) != fmt.Sprint(expected) {
		t.Errorf("expected global events %v but got %v", expected, globalKinds)
	}
	if events := rec.Events(); events[0].Kind != report.BannerEvent {
		t.Errorf("expected banner first but got %+v", events[0])
	}
	if n := len(rec.Filter(report.WorkerAverageEvent)); n != 4 {
		t.Errorf("expected 4 worker averages but got %d", n)
	}
	if n := len(rec.Filter(report.WorkerVarianceEvent)); n != 4 {
		t.Errorf("expected 4 worker variances but got %d", n)
	}
}

func TestRunNonZeroRoot(t *testing.T) {
	outcome, err := Run(Config{Workers: 5, Root: 3})
	if err != nil {
		t.Fatal(err)
	}
	for rank, res := range outcome.Results {
		if (rank == 3) != (res.Global.Extrema != nil) {
			t.Errorf("rank %d: unexpected extrema %v", rank, res.Global.Extrema)
		}
	}
	verifyOutcome(t, outcome, 10)
}

func TestRunSeeded(t *testing.T) {
	cfg := Config{Workers: 3, Seed: 1234, Network: NetworkConfig{Kind: "random"}}
	first, err := Run(cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for rank := range first.Results {
		a, b := first.Results[rank].Observations, second.Results[rank].Observations
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("rank %d observation %d differs: %+v vs %+v", rank, i, a[i], b[i])
			}
		}
	}
	if *first.Global().Extrema != *second.Global().Extrema {
		t.Error("seeded runs produced different extrema")
	}
	if first.RunID == second.RunID {
		t.Error("runs should have distinct IDs")
	}
}

func TestRunWithheldContribution(t *testing.T) {
	for _, withheld := range []int{0, 2} {
		t.Run(fmt.Sprintf("Withhold=%d", withheld), func(t *testing.T) {
			rec := &report.Recorder{}
			outcome, err := Run(Config{
				Workers:  3,
				Barrier:  true,
				Reporter: rec,
				Withhold: []int{withheld},
			})
			if outcome != nil {
				t.Fatal("expected no outcome")
			}
			if !errors.Is(err, ErrCollectiveParticipation) {
				t.Fatalf("expected participation failure but got %v", err)
			}

			var partErr *ParticipationError
			if !errors.As(err, &partErr) {
				t.Fatalf("expected *ParticipationError in %v", err)
			}
			if len(partErr.Absent) != 1 || partErr.Absent[0].Rank != withheld {
				t.Errorf("unexpected absent workers: %v", partErr.Absent)
			}
			if len(partErr.Stalled) != 2 {
				t.Errorf("expected 2 stalled workers but got %v", partErr.Stalled)
			}
			for _, ws := range partErr.Stalled {
				if ws.Stage != StageAverage {
					t.Errorf("worker %d stalled in %s", ws.Rank, ws.Stage)
				}
			}

			var stageErr *StageError
			if !errors.As(err, &stageErr) || stageErr.Rank != withheld {
				t.Errorf("expected stage error for rank %d in %v", withheld, err)
			}

			for _, kind := range []report.EventKind{report.GlobalAverageEvent,
				report.GlobalMaxEvent, report.GlobalMinEvent, report.GlobalVarianceEvent} {
				if len(rec.Filter(kind)) != 0 {
					t.Errorf("global event %v was reported", kind)
				}
			}
		})
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	dir, err := weather.NewDirectory([]string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]Config{
		"NoWorkers":     {Workers: 0},
		"TooManyWorker": {Workers: 4, Directory: dir},
		"BadRoot":       {Workers: 2, Root: 2},
		"BadWithhold":   {Workers: 2, Withhold: []int{5}},
		"BadNetwork":    {Workers: 2, Network: NetworkConfig{Kind: "carrier-pigeon"}},
		"NegativeCost":  {Workers: 2, ObservationCost: -1},
		"InfiniteCost":  {Workers: 2, ObservationCost: math.Inf(1)},
		"InfLatency":    {Workers: 2, Network: NetworkConfig{Kind: "random", Latency: math.Inf(1)}},
		"InfRate":       {Workers: 2, Network: NetworkConfig{Kind: "switched", Rate: math.Inf(1)}},
		"InfRootRate":   {Workers: 2, Network: NetworkConfig{Kind: "switched", RootRate: math.Inf(1)}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			rec := &report.Recorder{}
			cfg.Reporter = rec
			_, err := Run(cfg)
			if !errors.Is(err, partition.ErrInvalidConfiguration) {
				t.Fatalf("expected invalid configuration but got %v", err)
			}
			if len(rec.Events()) != 0 {
				t.Error("workers started despite invalid configuration")
			}
		})
	}

	_, err = Run(Config{Workers: 4, Directory: dir})
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StagePartition || stageErr.Rank != 0 {
		t.Errorf("expected partition failure for rank 0 but got %v", err)
	}
}

func TestCombineMatchesCollectives(t *testing.T) {
	outcome, err := Run(Config{Workers: 4, Allreducer: allreduce.NaiveAllreducer{},
		Reducer: reduce.NaiveReducer{}})
	if err != nil {
		t.Fatal(err)
	}
	locals := make([]stats.WorkerAggregate, len(outcome.Results))
	for i, res := range outcome.Results {
		locals[i] = res.Local
	}
	direct, err := stats.Combine(locals, true)
	if err != nil {
		t.Fatal(err)
	}
	global := outcome.Global()
	if math.Abs(direct.Average-global.Average) > 1e-9 ||
		math.Abs(direct.Variance-global.Variance) > 1e-9 ||
		*direct.Extrema != *global.Extrema {
		t.Errorf("direct %+v and collective %+v disagree", direct, global)
	}
}

func TestRunRootRate(t *testing.T) {
	for _, rootRate := range []float64{0, 1e4} {
		outcome, err := Run(Config{
			Workers:    5,
			Seed:       3,
			Network:    NetworkConfig{Kind: "switched", Latency: 1e-3, Rate: 100, RootRate: rootRate},
			Allreducer: allreduce.NaiveAllreducer{},
			Reducer:    reduce.NaiveReducer{},
		})
		if err != nil {
			t.Fatal(err)
		}
		verifyOutcome(t, outcome, 10)
	}

	_, err := Run(Config{Workers: 2, Network: NetworkConfig{Kind: "switched", RootRate: -1}})
	if !errors.Is(err, partition.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration but got %v", err)
	}
}

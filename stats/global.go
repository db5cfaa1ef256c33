package stats

import (
	"fmt"
	"math"
)

// Extrema holds the group-wide maximum and minimum.
type Extrema struct {
	Max float64
	Min float64
}

// A GlobalAggregate is the group-wide summary seen by one
// worker.
//
// Average and Variance are unweighted means over workers,
// so a worker with fewer locations counts as much as one
// with more. Extrema is only set on the root worker.
type GlobalAggregate struct {
	Average  float64
	Variance float64
	Extrema  *Extrema
}

// Combine applies the group combination rules to every
// worker's aggregate in one place.
//
// It mirrors what the collective reductions compute, and
// includes Extrema only if root is true.
func Combine(aggs []WorkerAggregate, root bool) (GlobalAggregate, error) {
	if len(aggs) == 0 {
		return GlobalAggregate{}, fmt.Errorf("combine: no worker aggregates")
	}
	var avgSum, varSum float64
	ext := Extrema{Max: math.Inf(-1), Min: math.Inf(1)}
	for _, agg := range aggs {
		avgSum += agg.Average
		varSum += agg.Variance
		ext.Max = math.Max(ext.Max, agg.Max)
		ext.Min = math.Min(ext.Min, agg.Min)
	}
	res := GlobalAggregate{
		Average:  avgSum / float64(len(aggs)),
		Variance: varSum / float64(len(aggs)),
	}
	if root {
		res.Extrema = &ext
	}
	return res, nil
}

// Package stats computes per-worker temperature summaries
// and the rules for combining them across a group.
package stats

import (
	"errors"
	"math"
)

// ErrEmptyPartition is returned when a worker has no
// values to summarize, so its average and variance would
// be undefined.
var ErrEmptyPartition = errors.New("empty partition")

// Sentinels that any plausible temperature replaces.
const (
	MaxSentinel = -9999.0
	MinSentinel = 9999.0
)

// A WorkerAggregate summarizes the values of one worker's
// partition.
type WorkerAggregate struct {
	Sum      float64
	Count    int
	Max      float64
	Min      float64
	Average  float64
	Variance float64
}

// An Accumulator builds a WorkerAggregate one value at a
// time.
//
// The zero value is not ready; use NewAccumulator.
type Accumulator struct {
	values []float64
	sum    float64
	max    float64
	min    float64
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{max: MaxSentinel, min: MinSentinel}
}

// Add records a value.
func (a *Accumulator) Add(value float64) {
	a.values = append(a.values, value)
	a.sum += value
	a.max = math.Max(a.max, value)
	a.min = math.Min(a.min, value)
}

// Count returns the number of values added so far.
func (a *Accumulator) Count() int {
	return len(a.values)
}

// Finalize computes the average and population variance.
func (a *Accumulator) Finalize() (WorkerAggregate, error) {
	if len(a.values) == 0 {
		return WorkerAggregate{}, ErrEmptyPartition
	}
	count := len(a.values)
	avg := a.sum / float64(count)
	return WorkerAggregate{
		Sum:      a.sum,
		Count:    count,
		Max:      a.max,
		Min:      a.min,
		Average:  avg,
		Variance: Variance(a.values, avg),
	}, nil
}

// Variance computes the population variance of values
// around a precomputed mean.
func Variance(values []float64, mean float64) float64 {
	var sum float64
	for _, x := range values {
		diff := x - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}

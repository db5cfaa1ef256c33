// Package report defines where a forecast run sends its
// human-facing output.
//
// Reporters are called concurrently by every worker. They
// are best-effort: a failed write is dropped and the run
// carries on.
package report

import "github.com/unixpickle/weather-reduce/weather"

// A Reporter receives the lines of a forecast run.
//
// Global* methods are only called on the root worker.
type Reporter interface {
	Banner()
	Observation(rank int, obs weather.Observation)
	WorkerAverage(rank int, average float64)
	WorkerVariance(rank int, variance float64)
	GlobalAverage(average float64)
	GlobalMax(max float64)
	GlobalMin(min float64)
	GlobalVariance(variance float64)
}

// Nop is a Reporter that discards everything.
type Nop struct{}

func (Nop) Banner()                                       {}
func (Nop) Observation(rank int, obs weather.Observation) {}
func (Nop) WorkerAverage(rank int, average float64)       {}
func (Nop) WorkerVariance(rank int, variance float64)     {}
func (Nop) GlobalAverage(average float64)                 {}
func (Nop) GlobalMax(max float64)                         {}
func (Nop) GlobalMin(min float64)                         {}
func (Nop) GlobalVariance(variance float64)               {}

// Multi forwards every call to each of its Reporters, in
// order.
type Multi []Reporter

func (m Multi) Banner() {
	for _, r := range m {
		r.Banner()
	}
}

func (m Multi) Observation(rank int, obs weather.Observation) {
	for _, r := range m {
		r.Observation(rank, obs)
	}
}

func (m Multi) WorkerAverage(rank int, average float64) {
	for _, r := range m {
		r.WorkerAverage(rank, average)
	}
}

func (m Multi) WorkerVariance(rank int, variance float64) {
	for _, r := range m {
		r.WorkerVariance(rank, variance)
	}
}

func (m Multi) GlobalAverage(average float64) {
	for _, r := range m {
		r.GlobalAverage(average)
	}
}

func (m Multi) GlobalMax(max float64) {
	for _, r := range m {
		r.GlobalMax(max)
	}
}

func (m Multi) GlobalMin(min float64) {
	for _, r := range m {
		r.GlobalMin(min)
	}
}

func (m Multi) GlobalVariance(variance float64) {
	for _, r := range m {
		r.GlobalVariance(variance)
	}
}

package weather

import (
	"math/rand"
	"time"
)

// A Synthesizer produces a fake temperature for each
// location.
//
// The temperature at index i is 2*i scaled by a uniform
// factor in [0.8, 1.2).
//
// A Synthesizer is not safe for concurrent use; every
// worker owns its own.
type Synthesizer struct {
	rand *rand.Rand
}

// NewSynthesizer creates a Synthesizer with a fixed seed.
func NewSynthesizer(seed int64) *Synthesizer {
	return &Synthesizer{rand: rand.New(rand.NewSource(seed))}
}

// SeedFor derives a worker's seed from a base seed.
//
// If base is 0, the wall clock is used, so separate runs
// differ. Adding the rank keeps workers in the same run
// from producing correlated streams.
func SeedFor(base int64, rank int) int64 {
	if base == 0 {
		base = time.Now().UnixNano()
	}
	return base + int64(rank)
}

// Temperature returns the temperature for a location
// index.
func (s *Synthesizer) Temperature(index int) float64 {
	base := float64(index) * 2.0
	multiplier := s.rand.Float64()*0.4 + 0.8
	return base * multiplier
}

// An Observation is one location's forecast.
type Observation struct {
	Index       int
	Location    string
	Temperature float64
	Condition   Condition
}

// Observe synthesizes and classifies the location at an
// index of the directory.
func (s *Synthesizer) Observe(dir *Directory, index int) Observation {
	temp := s.Temperature(index)
	return Observation{
		Index:       index,
		Location:    dir.Name(index),
		Temperature: temp,
		Condition:   Classify(temp),
	}
}

package report

import (
	"sync"

	"github.com/unixpickle/weather-reduce/weather"
)

// EventKind identifies which Reporter method produced an
// Event.
type EventKind int

const (
	BannerEvent EventKind = iota
	ObservationEvent
	WorkerAverageEvent
	WorkerVarianceEvent
	GlobalAverageEvent
	GlobalMaxEvent
	GlobalMinEvent
	GlobalVarianceEvent
)

// An Event is one recorded Reporter call.
//
// Rank is -1 for banner and global events.
type Event struct {
	Kind        EventKind
	Rank        int
	Observation weather.Observation
	Value       float64
}

// A Recorder keeps every call in memory, in arrival order.
type Recorder struct {
	lock   sync.Mutex
	events []Event
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Event{}, r.events...)
}

// Filter returns the recorded events of one kind.
func (r *Recorder) Filter(kind EventKind) []Event {
	var res []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			res = append(res, e)
		}
	}
	return res
}

func (r *Recorder) add(e Event) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Banner() {
	r.add(Event{Kind: BannerEvent, Rank: -1})
}

func (r *Recorder) Observation(rank int, obs weather.Observation) {
	r.add(Event{Kind: ObservationEvent, Rank: rank, Observation: obs, Value: obs.Temperature})
}

func (r *Recorder) WorkerAverage(rank int, average float64) {
	r.add(Event{Kind: WorkerAverageEvent, Rank: rank, Value: average})
}

func (r *Recorder) WorkerVariance(rank int, variance float64) {
	r.add(Event{Kind: WorkerVarianceEvent, Rank: rank, Value: variance})
}

func (r *Recorder) GlobalAverage(average float64) {
	r.add(Event{Kind: GlobalAverageEvent, Rank: -1, Value: average})
}

func (r *Recorder) GlobalMax(max float64) {
	r.add(Event{Kind: GlobalMaxEvent, Rank: -1, Value: max})
}

func (r *Recorder) GlobalMin(min float64) {
	r.add(Event{Kind: GlobalMinEvent, Rank: -1, Value: min})
}

func (r *Recorder) GlobalVariance(variance float64) {
	r.add(Event{Kind: GlobalVarianceEvent, Rank: -1, Value: variance})
}

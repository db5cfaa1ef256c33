package allreduce

import "github.com/unixpickle/weather-reduce/collcomm"

// A NaiveAllreducer sends every vector from every node to
// every other node.
type NaiveAllreducer struct{}

// Allreduce runs fn() on all of the nodes' vectors on
// every node.
func (n NaiveAllreducer) Allreduce(c *collcomm.Comms, data []float64,
	fn collcomm.ReduceFn) []float64 {
	op := c.Op()
	gatheredVecs := make([][]float64, len(c.Ports))

	op.Bcast(data)

	for i := 0; i < len(gatheredVecs)-1; i++ {
		incoming, source := op.RecvVec()
		gatheredVecs[c.IndexOf(source)] = incoming
	}

	gatheredVecs[c.Index()] = data

	return fn(c.Handle, gatheredVecs...)
}

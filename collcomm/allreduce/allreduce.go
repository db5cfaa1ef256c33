// Package allreduce implements algorithms for summing or
// maxing vectors across many different connected Nodes.
package allreduce

import (
	"fmt"

	"github.com/unixpickle/weather-reduce/collcomm"
)

// Allreducer is an algorithm that can apply a ReduceFn to
// vectors that are distributed across nodes.
//
// Every node receives an identical result.
// Each call claims its own collcomm.Op, so Allreduce()
// may be called many times in a row with the same Comms
// object, as long as every node makes the same calls in
// the same order.
type Allreducer interface {
	Allreduce(c *collcomm.Comms, data []float64, fn collcomm.ReduceFn) []float64
}

// Names lists the algorithm names understood by ByName.
var Names = []string{"naive", "tree", "stream"}

// ByName returns the Allreducer for a configuration name.
func ByName(name string) (Allreducer, error) {
	switch name {
	case "naive":
		return NaiveAllreducer{}, nil
	case "tree", "":
		return TreeAllreducer{}, nil
	case "stream":
		return StreamAllreducer{}, nil
	}
	return nil, fmt.Errorf("unknown allreduce algorithm: %q", name)
}

// Package reduce implements reduce-to-root algorithms,
// which combine vectors from every node but deliver the
// result to a single designated node.
package reduce

import (
	"fmt"

	"github.com/unixpickle/weather-reduce/collcomm"
)

// A Reducer applies a ReduceFn to vectors that are
// distributed across nodes and delivers the result to the
// root node only.
//
// Reduce returns nil on every node except root.
// Like an allreduce, every node must call Reduce, and no
// result is produced until all of them have.
type Reducer interface {
	Reduce(c *collcomm.Comms, data []float64, fn collcomm.ReduceFn, root int) []float64
}

// Names lists the algorithm names understood by ByName.
var Names = []string{"naive", "tree"}

// ByName returns the Reducer for a configuration name.
func ByName(name string) (Reducer, error) {
	switch name {
	case "naive":
		return NaiveReducer{}, nil
	case "tree", "":
		return TreeReducer{}, nil
	}
	return nil, fmt.Errorf("unknown reduce algorithm: %q", name)
}

// A NaiveReducer has every node send its vector straight
// to the root.
type NaiveReducer struct{}

// Reduce gathers every vector on root and reduces them in
// node order. Once it has every vector, the root releases
// the other nodes with an empty message.
func (n NaiveReducer) Reduce(c *collcomm.Comms, data []float64, fn collcomm.ReduceFn,
	root int) []float64 {
	op := c.Op()
	if c.Index() != root {
		op.SendVec(c.Ports[root], data)
		op.Recv()
		return nil
	}

	gatheredVecs := make([][]float64, len(c.Ports))
	gatheredVecs[root] = data
	for i := 0; i < len(c.Ports)-1; i++ {
		incoming, source := op.RecvVec()
		gatheredVecs[c.IndexOf(source)] = incoming
	}
	for i, port := range c.Ports {
		if i != root {
			op.Send(port, nil, 0)
		}
	}
	return fn(c.Handle, gatheredVecs...)
}

// A TreeReducer reduces vectors up a binary tree rooted at
// the root node.
type TreeReducer struct{}

// Reduce combines each subtree at its parent and forwards
// the partial result upward. The root then sends an empty
// release back down the tree.
func (t TreeReducer) Reduce(c *collcomm.Comms, data []float64, fn collcomm.ReduceFn,
	root int) []float64 {
	op := c.Op()
	parent, children := c.TreePosition(root)

	messages := [][]float64{data}
	for range children {
		msg, _ := op.RecvVec()
		messages = append(messages, msg)
	}
	reduced := fn(c.Handle, messages...)

	if parent != nil {
		op.SendVec(parent, reduced)
		op.Recv()
		reduced = nil
	}
	for _, child := range children {
		op.Send(child, nil, 0)
	}
	return reduced
}

package allreduce

import "github.com/unixpickle/weather-reduce/collcomm"

// A TreeAllreducer arranges the Ports in a binary tree
// and performs a reduction by going up the tree to a
// root node, and then back down the tree to the leaves.
type TreeAllreducer struct{}

// Allreduce calls fn on vectors along a tree and returns
// the resulting reduced vector.
func (t TreeAllreducer) Allreduce(c *collcomm.Comms, data []float64,
	fn collcomm.ReduceFn) []float64 {
	op := c.Op()
	parent, children := c.TreePosition(0)

	messages := [][]float64{data}
	for range children {
		msg, _ := op.RecvVec()
		messages = append(messages, msg)
	}

	finalVector := fn(c.Handle, messages...)
	if parent != nil {
		op.SendVec(parent, finalVector)
		finalVector, _ = op.RecvVec()
	}

	for _, child := range children {
		op.SendVec(child, finalVector)
	}

	return finalVector
}

package collcomm

import "github.com/unixpickle/weather-reduce/simulator"

// TreePosition returns the parent and child Ports of the
// current node when the nodes are arranged in a binary
// tree whose root is the node at index root.
//
// There may be no children.
// There is no parent for the root node.
func (c *Comms) TreePosition(root int) (parent *simulator.Port, children []*simulator.Port) {
	n := len(c.Ports)
	toPort := func(virtual int) *simulator.Port {
		return c.Ports[(virtual+root)%n]
	}

	// Heap layout over indices rotated so root is 0.
	idx := (c.Index() - root + n) % n
	if idx > 0 {
		parent = toPort((idx - 1) / 2)
	}
	for _, child := range []int{2*idx + 1, 2*idx + 2} {
		if child < n {
			children = append(children, toPort(child))
		}
	}
	return
}

package collcomm

// Barrier blocks until every node has called Barrier.
//
// Arrivals are gathered up a binary tree to node 0, which
// then releases the tree top-down. No data is exchanged.
func Barrier(c *Comms) {
	if c.Size() == 1 {
		return
	}
	op := c.Op()
	parent, children := c.TreePosition(0)
	for range children {
		op.Recv()
	}
	if parent != nil {
		op.Send(parent, nil, 0)
		op.Recv()
	}
	for _, child := range children {
		op.Send(child, nil, 0)
	}
}

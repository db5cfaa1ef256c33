package simulator

import "fmt"

// A Switcher decides how fast data flows between nodes
// that are sending to each other at the same time.
type Switcher interface {
	// SwitchedRates is passed a matrix with a 1 wherever a
	// node is sending to another node and 0 elsewhere.
	// On return, each entry holds the transfer rate for
	// that pair.
	SwitchedRates(mat *ConnMat)
}

// A GreedyDropSwitcher spreads a node's upload rate evenly
// over the nodes it is sending to. When a node receives
// more than its download rate, every incoming stream is
// slowed down by the same factor.
//
// In matrix terms, the rows are normalized first and the
// columns second.
type GreedyDropSwitcher struct {
	SendRates []float64
	RecvRates []float64
}

// NewGreedyDropSwitcher creates a GreedyDropSwitcher where
// every node uploads and downloads at the same rate.
func NewGreedyDropSwitcher(numNodes int, rate float64) *GreedyDropSwitcher {
	rates := make([]float64, numNodes)
	for i := range rates {
		rates[i] = rate
	}
	return &GreedyDropSwitcher{
		SendRates: rates,
		RecvRates: append([]float64{}, rates...),
	}
}

// SetNodeRate changes one node's upload and download rate.
func (g *GreedyDropSwitcher) SetNodeRate(node int, rate float64) {
	if node < 0 || node >= g.NumNodes() {
		panic(fmt.Sprintf("node %d out of range [0, %d)", node, g.NumNodes()))
	}
	g.SendRates[node] = rate
	g.RecvRates[node] = rate
}

// NumNodes gets the number of nodes the switch expects.
func (g *GreedyDropSwitcher) NumNodes() int {
	return len(g.SendRates)
}

// SwitchedRates performs the switching algorithm.
func (g *GreedyDropSwitcher) SwitchedRates(mat *ConnMat) {
	if mat.NumNodes() != g.NumNodes() || len(g.RecvRates) != g.NumNodes() {
		panic("unexpected number of nodes")
	}
	for src := 0; src < g.NumNodes(); src++ {
		if fanOut := mat.SumSource(src); fanOut > 0 {
			mat.ScaleSource(src, g.SendRates[src]/fanOut)
		}
	}
	for dst := 0; dst < g.NumNodes(); dst++ {
		if incoming := mat.SumDest(dst); incoming > g.RecvRates[dst] {
			mat.ScaleDest(dst, g.RecvRates[dst]/incoming)
		}
	}
}

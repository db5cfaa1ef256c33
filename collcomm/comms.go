// Package collcomm implements collective communication
// between a fixed group of nodes on a simulated network.
//
// Every node runs the same sequence of collective calls.
// Each call claims the next operation number on the
// node's Comms, so messages from back-to-back collectives
// never get mixed up even when the network reorders them.
package collcomm

import (
	"fmt"

	"github.com/unixpickle/essentials"

	"github.com/unixpickle/weather-reduce/simulator"
)

// Comms manages a set of connections between a bunch of
// nodes.
// During a run, each node has a local Comms object that
// represents its view of the world.
type Comms struct {
	// Handle is the node's main Goroutine's handle on the
	// event loop.
	Handle *simulator.Handle

	// Port is the current node's port.
	Port *simulator.Port

	// Ports contains ports to all the nodes in the
	// network, including the current node.
	Ports []*simulator.Port

	// Network is the network connecting the nodes.
	Network simulator.Network

	nextOp  int
	pending []*simulator.Message
}

// SpawnComms creates Comms objects for every node in a
// network and calls f for each node in its own Goroutine.
//
// Goroutines are named after their node, so a deadlock
// reports which nodes never finished.
func SpawnComms(loop *simulator.EventLoop, network simulator.Network, nodes []*simulator.Node,
	f func(c *Comms)) {
	ports := make([]*simulator.Port, len(nodes))
	for i, node := range nodes {
		ports[i] = node.Port(loop)
	}
	for i, node := range nodes {
		port := ports[i]
		name := node.Name
		if name == "" {
			name = fmt.Sprintf("node%d", i)
		}
		loop.GoNamed(name, func(h *simulator.Handle) {
			f(&Comms{
				Handle:  h,
				Port:    port,
				Ports:   ports,
				Network: network,
			})
		})
	}
}

// Size gets the number of nodes.
func (c *Comms) Size() int {
	return len(c.Ports)
}

// Index returns the current node's index in the list of
// nodes.
func (c *Comms) Index() int {
	return c.IndexOf(c.Port)
}

// IndexOf returns any node's index.
func (c *Comms) IndexOf(p *simulator.Port) int {
	for i, port := range c.Ports {
		if port == p {
			return i
		}
	}
	panic("unreachable")
}

// Op starts the next collective operation.
//
// Every node must start operations in the same order.
func (c *Comms) Op() *Op {
	c.nextOp++
	return &Op{comms: c, id: c.nextOp}
}

// An Op is one collective operation's view of a Comms.
// Messages sent through an Op are only received by the
// matching Op on other nodes.
type Op struct {
	comms *Comms
	id    int
}

type opMessage struct {
	op      int
	payload interface{}
}

// Comms returns the underlying Comms.
func (o *Op) Comms() *Comms {
	return o.comms
}

// ID returns the operation number.
func (o *Op) ID() int {
	return o.id
}

// Send schedules a payload to be sent to the destination.
// The size is the number of bytes charged to the network.
func (o *Op) Send(dst *simulator.Port, payload interface{}, size float64) {
	o.comms.Network.Send(o.comms.Handle, o.message(dst, payload, size))
}

// SendVec sends a vector to the destination.
func (o *Op) SendVec(dst *simulator.Port, vec []float64) {
	o.Send(dst, vec, vecSize(vec))
}

// Bcast sends a vector to every other node.
func (o *Op) Bcast(vec []float64) {
	c := o.comms
	messages := make([]*simulator.Message, 0, len(c.Ports)-1)
	for _, port := range c.Ports {
		if port == c.Port {
			continue
		}
		messages = append(messages, o.message(port, vec, vecSize(vec)))
	}
	if len(messages) > 0 {
		c.Network.Send(c.Handle, messages...)
	}
}

// Recv receives the next payload for this operation.
//
// Payloads for later operations are buffered on the Comms
// until those operations ask for them.
func (o *Op) Recv() (interface{}, *simulator.Port) {
	c := o.comms
	for i, msg := range c.pending {
		if msg.Message.(*opMessage).op == o.id {
			essentials.OrderedDelete(&c.pending, i)
			return msg.Message.(*opMessage).payload, msg.Source
		}
	}
	for {
		msg := c.Port.Recv(c.Handle)
		om := msg.Message.(*opMessage)
		if om.op == o.id {
			return om.payload, msg.Source
		} else if om.op < o.id {
			panic(fmt.Sprintf("message for finished operation %d arrived during %d", om.op, o.id))
		}
		c.pending = append(c.pending, msg)
	}
}

// RecvVec receives the next vector for this operation.
func (o *Op) RecvVec() ([]float64, *simulator.Port) {
	payload, source := o.Recv()
	return payload.([]float64), source
}

func (o *Op) message(dst *simulator.Port, payload interface{}, size float64) *simulator.Message {
	return &simulator.Message{
		Source:  o.comms.Port,
		Dest:    dst,
		Message: &opMessage{op: o.id, payload: payload},
		Size:    size,
	}
}

func vecSize(vec []float64) float64 {
	return float64(len(vec) * 8)
}

package simulator

import "testing"

func TestSwitchedNetworkSingleMessage(t *testing.T) {
	loop := NewEventLoop()

	switcher := NewGreedyDropSwitcher(2, 2.0)
	nodes := NewNodes("node", 2)
	port1 := nodes[0].Port(loop)
	port2 := nodes[1].Port(loop)
	network := NewSwitcherNetwork(switcher, nodes, 3.0)

	loop.Go(func(h *Handle) {
		network.Send(h, &Message{
			Source:  port1,
			Dest:    port2,
			Message: "hi node 2",
			Size:    124.0,
		})
		if val := port1.Recv(h).Message; val != "hi node 1" {
			t.Errorf("unexpected message: %s", val)
		}
	})
	loop.Go(func(h *Handle) {
		network.Send(h, &Message{
			Source:  port2,
			Dest:    port1,
			Message: "hi node 1",
			Size:    124.0,
		})
		if val := port2.Recv(h).Message; val != "hi node 2" {
			t.Errorf("unexpected message: %s", val)
		}
	})

	if err := loop.Run(); err != nil {
		t.Fatal(err)
	}

	expectedTime := 124.0/2.0 + 3.0
	if loop.Time() != expectedTime {
		t.Errorf("time should be %f but got %f", expectedTime, loop.Time())
	}
}

func TestSwitchedNetworkSharedLink(t *testing.T) {
	loop := NewEventLoop()

	dataRate := 4.0
	switcher := NewGreedyDropSwitcher(2, dataRate)
	nodes := NewNodes("node", 2)
	src := nodes[0].Port(loop)
	dst := nodes[1].Port(loop)
	network := NewSwitcherNetwork(switcher, nodes, 0)

	loop.Go(func(h *Handle) {
		// Both messages share the link, so each one gets
		// half of the rate until the first finishes.
		network.Send(h,
			&Message{Source: src, Dest: dst, Message: "small", Size: 8.0},
			&Message{Source: src, Dest: dst, Message: "large", Size: 16.0},
		)
	})
	loop.Go(func(h *Handle) {
		if val := dst.Recv(h).Message; val != "small" {
			t.Errorf("unexpected first message: %v", val)
		}
		if expected := 8.0 / (dataRate / 2); h.Time() != expected {
			t.Errorf("expected time %f but got %f", expected, h.Time())
		}
		if val := dst.Recv(h).Message; val != "large" {
			t.Errorf("unexpected second message: %v", val)
		}
		if expected := 8.0/(dataRate/2) + 8.0/dataRate; h.Time() != expected {
			t.Errorf("expected time %f but got %f", expected, h.Time())
		}
	})

	if err := loop.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestRandomNetworkLatencyBound(t *testing.T) {
	loop := NewEventLoopSeed(42)
	nodes := NewNodes("node", 2)
	src := nodes[0].Port(loop)
	dst := nodes[1].Port(loop)
	network := RandomNetwork{MaxLatency: 0.25}

	const numMessages = 50
	loop.Go(func(h *Handle) {
		for i := 0; i < numMessages; i++ {
			network.Send(h, &Message{Source: src, Dest: dst, Message: i})
		}
	})
	loop.Go(func(h *Handle) {
		seen := map[int]bool{}
		for i := 0; i < numMessages; i++ {
			seen[dst.Recv(h).Message.(int)] = true
		}
		if len(seen) != numMessages {
			t.Errorf("expected %d distinct messages but got %d", numMessages, len(seen))
		}
	})

	if err := loop.Run(); err != nil {
		t.Fatal(err)
	}
	if loop.Time() >= 0.25 {
		t.Errorf("delivery took %f, past the latency bound", loop.Time())
	}
}

package sim

import (
	"sync"
	"testing"
)

type fakeMetrics struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{values: make(map[string]uint64)}
}

func (m *fakeMetrics) IncrementCounter(key string, delta uint64) {
	m.mu.Lock()
	m.values[key] += delta
	m.mu.Unlock()
}

func (m *fakeMetrics) SetGauge(key string, value uint64) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *fakeMetrics) value(key string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func TestCommandBufferFIFO(t *testing.T) {
	buffer := NewCommandBuffer(4, nil)

	for i := 0; i < 3; i++ {
		if !buffer.Push(Command{ActorID: "p", OriginTick: uint64(i)}) {
			t.Fatalf("push %d failed below capacity", i)
		}
	}
	if buffer.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", buffer.Len())
	}

	drained := buffer.Drain()
	if len(drained) != 3 {
		t.Fatalf("drained %d commands, want 3", len(drained))
	}
	for i, cmd := range drained {
		if cmd.OriginTick != uint64(i) {
			t.Fatalf("command %d out of order: origin tick %d", i, cmd.OriginTick)
		}
	}
	if buffer.Len() != 0 {
		t.Fatalf("buffer should be empty after drain")
	}
	if buffer.Drain() != nil {
		t.Fatalf("draining an empty buffer should return nil")
	}
}

func TestCommandBufferWrapsAround(t *testing.T) {
	buffer := NewCommandBuffer(2, nil)

	buffer.Push(Command{OriginTick: 1})
	buffer.Push(Command{OriginTick: 2})
	buffer.Drain()
	buffer.Push(Command{OriginTick: 3})
	buffer.Push(Command{OriginTick: 4})

	drained := buffer.Drain()
	if len(drained) != 2 || drained[0].OriginTick != 3 || drained[1].OriginTick != 4 {
		t.Fatalf("wrap-around drain = %+v", drained)
	}
}

func TestCommandBufferOverflowCountsDrops(t *testing.T) {
	metrics := newFakeMetrics()
	buffer := NewCommandBuffer(1, metrics)

	if !buffer.Push(Command{OriginTick: 1}) {
		t.Fatalf("first push failed")
	}
	if buffer.Push(Command{OriginTick: 2}) {
		t.Fatalf("push beyond capacity should fail")
	}
	if got := metrics.value("sim_command_buffer_overflow_total"); got != 1 {
		t.Fatalf("overflow counter = %d, want 1", got)
	}
	if got := metrics.value("sim_command_buffer_occupancy"); got != 1 {
		t.Fatalf("occupancy gauge = %d, want 1", got)
	}

	buffer.Drain()
	if got := metrics.value("sim_command_buffer_occupancy"); got != 0 {
		t.Fatalf("occupancy after drain = %d, want 0", got)
	}
}

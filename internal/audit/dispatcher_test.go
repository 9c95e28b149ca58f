package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/turnos/internal/logging"
)

type memSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (s *memSink) Log(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &memSink{}
	d := NewDispatcher(sink, 10, logging.Discard())

	d.Dispatch(Event{BusinessID: 1, Action: "a"})
	d.Dispatch(Event{BusinessID: 1, Action: "b"})
	d.Close()

	assert.Len(t, sink.events, 2)
	assert.Equal(t, "a", sink.events[0].Action)
	assert.Equal(t, "b", sink.events[1].Action)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &memSink{block: make(chan struct{})}
	d := NewDispatcher(sink, 1, logging.Discard())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "x"})
	}
	close(sink.block)
	d.Close()

	// at most one in flight plus one buffered
	assert.LessOrEqual(t, len(sink.events), 2)
	assert.NotEmpty(t, sink.events)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

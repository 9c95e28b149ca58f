package audit

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/turnos/internal/logging"
)

type Event struct {
	BusinessID uint
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
}

// Sink persists one event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink   Sink
	log    *logging.Logger
	queue  chan Event
	wg     sync.WaitGroup
	closed sync.Once
}

func NewDispatcher(sink Sink, size int, log *logging.Logger) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = logging.Default()
	}
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed", "action", ev.Action, "business_id", ev.BusinessID, "error", err)
		}
	}
}

// Dispatch never blocks: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closed.Do(func() { close(d.queue) })
	d.wg.Wait()
}

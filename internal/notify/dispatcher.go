package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/turnos/internal/logging"
)

const sendTimeout = 10 * time.Second

// BookingCreated is what the client confirmation e-mail is built from.
type BookingCreated struct {
	BusinessName string
	ClientName   string
	ClientEmail  string
	ServiceName  string
	StaffName    string
	Start        time.Time
}

func (b BookingCreated) Message() EmailMessage {
	when := b.Start.Format("02/01/2006 15:04")
	return EmailMessage{
		To:      b.ClientEmail,
		ToName:  b.ClientName,
		Subject: fmt.Sprintf("Tu turno en %s", b.BusinessName),
		Body: fmt.Sprintf(
			"Hola %s, recibimos tu reserva de %s con %s para el %s. Te avisaremos cuando sea confirmada.",
			b.ClientName, b.ServiceName, b.StaffName, when,
		),
	}
}

// Dispatcher sends booking e-mails from a single worker. Like the audit
// dispatcher it never blocks the request: a full queue drops the message.
type Dispatcher struct {
	sender EmailSender
	log    *logging.Logger
	queue  chan EmailMessage
	wg     sync.WaitGroup
	closed sync.Once
}

func NewDispatcher(sender EmailSender, size int, log *logging.Logger) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = logging.Default()
	}
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan EmailMessage, size),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error("notification failed", "to", msg.To, "error", err)
		}
		cancel()
	}
}

// BookingCreated enqueues the confirmation e-mail. Bookings without an
// e-mail address are skipped.
func (d *Dispatcher) BookingCreated(ev BookingCreated) {
	if d == nil || ev.ClientEmail == "" {
		return
	}
	select {
	case d.queue <- ev.Message():
	default:
		d.log.Warn("notify queue full, dropping message", "to", ev.ClientEmail)
	}
}

func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closed.Do(func() { close(d.queue) })
	d.wg.Wait()
}

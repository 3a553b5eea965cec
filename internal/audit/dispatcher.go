package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Event struct {
	UserID   *uint     `json:"user_id,omitempty"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID *uint     `json:"entity_id,omitempty"`
	Metadata any       `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

// Sink persists or forwards audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher hands events to its sinks off the request path. A full queue
// drops the event rather than blocking the caller.
type Dispatcher struct {
	sinks []Sink
	queue chan Event
	log   *logrus.Logger
	done  chan struct{}
	once  sync.Once
}

func NewDispatcher(log *logrus.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100),
		log:   log,
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Write(ctx, ev); err != nil {
				d.log.WithError(err).WithField("action", ev.Action).Warn("audit sink failed")
			}
			cancel()
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}

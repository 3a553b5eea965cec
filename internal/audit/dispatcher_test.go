package audit

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (m *memorySink) Write(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("sink down")
	}
	m.events = append(m.events, ev)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDispatcherFansOutToSinks(t *testing.T) {
	broken := &memorySink{fail: true}
	sink := &memorySink{}
	d := NewDispatcher(quietLogger(), broken, sink)

	d.Dispatch(Event{Action: "booking_created", Entity: "booking", EntityID: Ptr(7)})
	d.Dispatch(Event{Action: "booking_cancelled", Entity: "booking", EntityID: Ptr(7)})
	d.Close()

	require.Len(t, sink.events, 2)
	assert.Equal(t, "booking_created", sink.events[0].Action)
	assert.False(t, sink.events[0].At.IsZero())
	assert.Equal(t, uint(7), *sink.events[1].EntityID)
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "noop"}) })
}

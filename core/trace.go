package core

import (
	"sync"

	"github.com/dustin/go-broadcast"
	"github.com/encodeous/thaum/state"
)

type TraceEvent struct {
	Event RouterEvent
	Desc  string
	Args  []any
}

// Trace broadcasts router events of a build to any number of subscribers.
// Publishing never blocks: events are dropped when subscribers fall behind.
type Trace struct {
	broadcast.Broadcaster
	mu     sync.Mutex
	closed bool
}

func NewTrace() *Trace {
	return &Trace{
		Broadcaster: broadcast.NewBroadcaster(state.TraceBufferSize),
	}
}

func (t *Trace) Publish(ev TraceEvent) bool {
	return t.TrySubmit(ev)
}

// Subscribe registers a new listener. The returned function unregisters it.
func (t *Trace) Subscribe(buf int) (<-chan any, func()) {
	ch := make(chan any, buf)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	t.Register(ch)
	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !t.closed {
			t.Unregister(ch)
		}
	}
}

func (t *Trace) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.Broadcaster.Close()
}

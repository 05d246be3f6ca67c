// Package tui implements watch mode: producers (file watcher, keyboard,
// terminal resize) push events into a bounded queue drained by a single
// consumer that re-runs lookups and redraws the terminal.
package tui

import (
	"errors"
	"sync"
)

// ErrDispatchFailed is returned by Send and Receive once the dispatcher is closed.
var ErrDispatchFailed = errors.New("event dispatch failed")

// DefaultQueueSize bounds the number of pending events.
const DefaultQueueSize = 32

// Event is one input to the consumer loop.
type Event uint8

const (
	Interrupt Event = iota
	FileUpdate
	Resize
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
)

func (e Event) String() string {
	switch e {
	case Interrupt:
		return "interrupt"
	case FileUpdate:
		return "file-update"
	case Resize:
		return "resize"
	case KeyUp:
		return "key-up"
	case KeyDown:
		return "key-down"
	case KeyRight:
		return "key-right"
	case KeyLeft:
		return "key-left"
	default:
		return "unknown"
	}
}

// Dispatcher is a bounded multi-producer, single-consumer event queue.
type Dispatcher struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher holding up to size pending events.
func NewDispatcher(size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Dispatcher{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

// Send enqueues ev, blocking while the queue is full.
func (d *Dispatcher) Send(ev Event) error {
	select {
	case <-d.done:
		return ErrDispatchFailed
	default:
	}

	select {
	case d.events <- ev:
		return nil
	case <-d.done:
		return ErrDispatchFailed
	}
}

// Receive blocks until an event is available.
func (d *Dispatcher) Receive() (Event, error) {
	select {
	case <-d.done:
		return 0, ErrDispatchFailed
	default:
	}

	select {
	case ev := <-d.events:
		return ev, nil
	case <-d.done:
		return 0, ErrDispatchFailed
	}
}

// Close makes every pending and future Send and Receive fail. It is safe to
// call more than once.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.done) })
}

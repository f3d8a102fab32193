// Package gpioevents lifts aggregator callback invocations out of
// interrupt context: a registered watch does nothing in the ISR beyond
// a non-blocking channel send, and a worker goroutine fans events out
// to ordinary consumers.
package gpioevents

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"xecgpio-go/gpio"
)

// Event reports one interrupt delivery for a watched port.
type Event struct {
	Port int
	Pins uint32 // subset of the watch mask that fired
	TS   time.Time
}

type Worker struct {
	// Written from interrupt context; MUST NOT block the ISR:
	isrQ chan Event
	// Consumed by the application:
	outQ    chan Event
	stopped chan struct{}

	mu      sync.Mutex
	watches map[*watch]struct{}

	drops uint32 // ISR drop counter
}

type watch struct {
	port *gpio.Port
	cb   gpio.Callback
}

func New(isrBuf, outBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 64
	}
	if outBuf <= 0 {
		outBuf = 64
	}
	return &Worker{
		isrQ:    make(chan Event, isrBuf),
		outQ:    make(chan Event, outBuf),
		stopped: make(chan struct{}),
		watches: map[*watch]struct{}{},
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-w.isrQ:
				select {
				case w.outQ <- ev:
				default:
					// drop to protect the pipeline if the consumer is slow
				}
			}
		}
	}()
}

func (w *Worker) Events() <-chan Event { return w.outQ }

// Stopped is closed when the worker goroutine exits after its context
// is cancelled.
func (w *Worker) Stopped() <-chan struct{} { return w.stopped }

// Watch registers interest in the masked pins of a port. The returned
// cancel func removes the registration.
func (w *Worker) Watch(p *gpio.Port, mask uint32) (func(), error) {
	wh := &watch{port: p}
	wh.cb = gpio.Callback{
		Mask: mask,
		// ISR path: timestamp + non-blocking send, nothing else.
		Handler: func(port *gpio.Port, pins uint32) {
			ev := Event{Port: port.Index(), Pins: pins, TS: time.Now()}
			select {
			case w.isrQ <- ev:
			default:
				atomic.AddUint32(&w.drops, 1)
			}
		},
	}
	if err := p.AddCallback(&wh.cb); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.watches[wh] = struct{}{}
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		if _, ok := w.watches[wh]; ok {
			wh.port.RemoveCallback(&wh.cb)
			delete(w.watches, wh)
		}
		w.mu.Unlock()
	}, nil
}

// Drops returns how many events the ISR path discarded because the
// queue was full.
func (w *Worker) Drops() uint32 { return atomic.LoadUint32(&w.drops) }

package gpio

import (
	"sync"

	"xecgpio-go/errcode"
)

// Callback pairs a mask of pins of interest with a handler. Register a
// pointer and keep the value alive until removed; the same pointer
// removes it. Handlers run in interrupt context and receive the subset
// of their mask that fired.
type Callback struct {
	Mask    uint32
	Handler func(p *Port, pins uint32)
}

// callbackList is mutex-guarded because add/remove run in call context
// while fire runs from the interrupt bridge.
type callbackList struct {
	mu  sync.Mutex
	cbs []*Callback
}

func (l *callbackList) add(cb *Callback) error {
	if cb == nil || cb.Handler == nil || cb.Mask == 0 {
		return errcode.InvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, have := range l.cbs {
		if have == cb {
			return nil // already registered
		}
	}
	l.cbs = append(l.cbs, cb)
	return nil
}

func (l *callbackList) remove(cb *Callback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, have := range l.cbs {
		if have == cb {
			l.cbs = append(l.cbs[:i], l.cbs[i+1:]...)
			return
		}
	}
}

func (l *callbackList) fire(p *Port, pins uint32) {
	l.mu.Lock()
	snapshot := make([]*Callback, len(l.cbs))
	copy(snapshot, l.cbs)
	l.mu.Unlock()

	for _, cb := range snapshot {
		if hit := cb.Mask & pins; hit != 0 {
			cb.Handler(p, hit)
		}
	}
}

// AddCallback registers a handler for the masked pins of this port.
// Multiple registrations may coexist; masks may overlap.
func (p *Port) AddCallback(cb *Callback) error { return p.cbs.add(cb) }

// RemoveCallback deregisters a previously added callback.
func (p *Port) RemoveCallback(cb *Callback) { p.cbs.remove(cb) }

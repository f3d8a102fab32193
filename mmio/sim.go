package mmio

import "sync"

// AccessKind discriminates entries in a Sim trace.
type AccessKind uint8

const (
	ReadAccess AccessKind = iota
	WriteAccess
	BarrierAccess
)

func (k AccessKind) String() string {
	switch k {
	case ReadAccess:
		return "read"
	case WriteAccess:
		return "write"
	case BarrierAccess:
		return "barrier"
	}
	return "unknown"
}

// Access is one recorded register access.
type Access struct {
	Kind AccessKind
	Off  uint32
	Val  uint32 // value read or written; zero for barriers
}

// Sim is an in-memory register bank that records every access through
// the Bus interface. Poke and Peek bypass the trace so tests can seed
// and inspect state the way hardware would.
type Sim struct {
	mu    sync.Mutex
	regs  map[uint32]uint32
	trace []Access
}

var _ Bus = (*Sim)(nil)

func NewSim() *Sim {
	return &Sim{regs: make(map[uint32]uint32)}
}

func (s *Sim) Read32(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.regs[off]
	s.trace = append(s.trace, Access{Kind: ReadAccess, Off: off, Val: v})
	return v
}

func (s *Sim) Write32(off uint32, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[off] = v
	s.trace = append(s.trace, Access{Kind: WriteAccess, Off: off, Val: v})
}

func (s *Sim) Barrier() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = append(s.trace, Access{Kind: BarrierAccess})
}

// Poke sets a register without tracing (hardware-side update).
func (s *Sim) Poke(off uint32, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[off] = v
}

// Peek reads a register without tracing.
func (s *Sim) Peek(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[off]
}

// Trace returns a copy of the recorded accesses.
func (s *Sim) Trace() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Access, len(s.trace))
	copy(out, s.trace)
	return out
}

// Writes returns only the write entries of the trace.
func (s *Sim) Writes() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Access
	for _, a := range s.trace {
		if a.Kind == WriteAccess {
			out = append(out, a)
		}
	}
	return out
}

// ResetTrace clears the trace but keeps register contents.
func (s *Sim) ResetTrace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = nil
}

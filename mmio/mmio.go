// Package mmio provides 32-bit access to memory-mapped register blocks.
//
// A Bus is a window of registers addressed by byte offset. Map gives a
// window over real hardware addresses; Sim (sim.go) gives an in-memory
// bank that records every access, for tests and host-side tooling.
package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Bus is a window of 32-bit registers addressed by byte offset.
type Bus interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)

	// Barrier orders all preceding register writes before any
	// subsequent access. Needed where hardware updates one register
	// asynchronously in response to a write to another.
	Barrier()
}

// Map returns a Bus over size bytes of directly addressable registers
// starting at base. Accesses are 32-bit atomic loads and stores, which
// the hardware sees uncached and whole.
func Map(base uintptr, size uint32) Bus {
	return &window{base: base, size: size}
}

type window struct {
	base  uintptr
	size  uint32
	fence uint32
}

func (w *window) reg(off uint32) *uint32 {
	// off is compared against size-4 rather than off+4 against size:
	// the addition wraps for offsets near the top of the 32-bit range
	// and would let the access escape the window.
	if w.size < 4 || off > w.size-4 || off%4 != 0 {
		panic("mmio: offset out of window")
	}
	return (*uint32)(unsafe.Pointer(w.base + uintptr(off)))
}

func (w *window) Read32(off uint32) uint32     { return atomic.LoadUint32(w.reg(off)) }
func (w *window) Write32(off uint32, v uint32) { atomic.StoreUint32(w.reg(off), v) }

// Barrier issues a full fence, standing in for the data memory barrier
// the target core requires between posted writes and dependent reads.
func (w *window) Barrier() { atomic.AddUint32(&w.fence, 0) }

// Offset returns a view of b shifted by base. Two register blocks can
// share one underlying Bus while keeping distinct addresses.
func Offset(b Bus, base uint32) Bus {
	return &offsetBus{b: b, base: base}
}

type offsetBus struct {
	b    Bus
	base uint32
}

func (o *offsetBus) Read32(off uint32) uint32     { return o.b.Read32(o.base + off) }
func (o *offsetBus) Write32(off uint32, v uint32) { o.b.Write32(o.base+off, v) }
func (o *offsetBus) Barrier()                     { o.b.Barrier() }

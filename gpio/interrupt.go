package gpio

import (
	"xecgpio-go/errcode"
	"xecgpio-go/mmio"
	"xecgpio-go/x/bitx"
)

// Aggregator is the view over the ECIA block: per-group enable,
// pending-source and result registers, plus the block enables that
// forward group results to the core's interrupt controller.
type Aggregator struct {
	bus mmio.Bus
}

func NewAggregator(bus mmio.Bus) *Aggregator {
	return &Aggregator{bus: bus}
}

func (a *Aggregator) write(girq uint8, reg GirqReg, v uint32) {
	a.bus.Write32(GirqOffset(girq, reg), v)
}

// DisableSource clears one pin's enable bit in its group.
func (a *Aggregator) DisableSource(girq uint8, pin uint8) {
	a.write(girq, GirqEnClr, bitx.Bit[uint32](int(pin)))
}

// EnableSource sets one pin's enable bit in its group.
func (a *Aggregator) EnableSource(girq uint8, pin uint8) {
	a.write(girq, GirqEnSet, bitx.Bit[uint32](int(pin)))
}

// ClearSource acknowledges the masked pending bits (write-one-to-clear).
func (a *Aggregator) ClearSource(girq uint8, mask uint32) {
	a.write(girq, GirqSrc, mask)
}

// Result reads the group's result register: every source both pending
// and enabled.
func (a *Aggregator) Result(girq uint8) uint32 {
	return a.bus.Read32(GirqOffset(girq, GirqResult))
}

// EnableBlock forwards the group's combined result to the core.
func (a *Aggregator) EnableBlock(girq uint8) {
	a.bus.Write32(girqBlkEnSetOff, girqBit(girq))
}

// DisableBlock stops forwarding the group's result to the core.
func (a *Aggregator) DisableBlock(girq uint8) {
	a.bus.Write32(girqBlkEnClrOff, girqBit(girq))
}

// ConfigureInterrupt arms or disarms detection on one pin and wires it
// into the aggregator.
//
// The pin's aggregator enable is cleared first, unconditionally, so no
// delivery can happen while the detection mode is being rewritten.
// After the detection field is written a barrier orders it before the
// stale-source clear: hardware starts latching transitions into the
// source register the instant the mode changes.
func (p *Port) ConfigureInterrupt(pin uint8, mode IntMode, trig IntTrigger) error {
	if !p.validPin(pin) {
		return errcode.InvalidPin
	}
	if mode != IntDisabled && p.desc.GIRQ == 0 {
		return errcode.Unsupported
	}
	idet, err := idetPattern(mode, trig)
	if err != nil {
		return err
	}

	if p.desc.GIRQ != 0 {
		p.agg.DisableSource(p.desc.GIRQ, pin)
	}

	p.rmwCtrl(pin, ctrlIDetMask, idet)
	p.bus.Barrier()

	if mode != IntDisabled {
		// Discard anything latched before or during reconfiguration,
		// then let the pin through to the core.
		p.agg.ClearSource(p.desc.GIRQ, bitx.Bit[uint32](int(pin)))
		p.agg.EnableSource(p.desc.GIRQ, pin)
	}

	return nil
}

// ServiceInterrupt handles one assertion of the port's shared line.
// Call it from the platform's interrupt dispatch; it must not run
// concurrently with itself for the same port.
func (p *Port) ServiceInterrupt() {
	if p.desc.GIRQ == 0 {
		return
	}
	result := p.agg.Result(p.desc.GIRQ)

	// Acknowledge exactly the bits observed, not a blind clear-all, so
	// sources that latch between the read and the clear survive for
	// the next assertion.
	p.agg.ClearSource(p.desc.GIRQ, result)

	p.cbs.fire(p, result)
}

// Package gpio drives the memory-mapped GPIO controller of Microchip
// XEC (MEC15xx-class) parts: per-pin PCR1 control registers, shared
// parallel input/output registers per port, and the ECIA interrupt
// aggregator that funnels each port's pins onto one core line.
//
// Configuration calls and interrupt servicing share the register
// blocks without internal locking; the platform must not reconfigure a
// pin concurrently with interrupt reconfiguration for the same pin
// from another execution context.
package gpio

import (
	"xecgpio-go/errcode"
	"xecgpio-go/mmio"
	"xecgpio-go/x/bitx"
)

// PortDesc describes one physical port. Descriptors are immutable,
// built once at init from the static port table (or supplied by a
// platform for nonstandard layouts).
type PortDesc struct {
	Index     int    // which of the controller's ports this is
	ValidPins uint32 // bitmap of bonded pins; others are invalid everywhere
	CtrlBase  uint32 // byte offset of this port's PCR1 array in the GPIO block
	GIRQ      uint8  // aggregator group, 0 when the port has no interrupt line
}

// Port is the register view over one GPIO port plus its callback list.
type Port struct {
	desc PortDesc
	bus  mmio.Bus
	agg  *Aggregator

	cbs callbackList
}

// NewPort builds a port over a GPIO register block. agg may be nil
// only if desc.GIRQ is 0.
func NewPort(desc PortDesc, bus mmio.Bus, agg *Aggregator) *Port {
	if desc.GIRQ != 0 && agg == nil {
		panic("gpio: port with interrupt group needs an aggregator")
	}
	return &Port{desc: desc, bus: bus, agg: agg}
}

func (p *Port) Index() int        { return p.desc.Index }
func (p *Port) ValidPins() uint32 { return p.desc.ValidPins }

func (p *Port) validPin(pin uint8) bool {
	return pin < 32 && bitx.Has(p.desc.ValidPins, bitx.Bit[uint32](int(pin)))
}

func (p *Port) ctrlOff(pin uint8) uint32 { return p.desc.CtrlBase + 4*uint32(pin) }
func (p *Port) parinOff() uint32         { return parinBase + 4*uint32(p.desc.Index) }
func (p *Port) paroutOff() uint32        { return paroutBase + 4*uint32(p.desc.Index) }

// rmwCtrl rewrites only the mask-selected bits of a pin's control
// register, preserving everything else.
func (p *Port) rmwCtrl(pin uint8, mask, bits uint32) {
	off := p.ctrlOff(pin)
	p.bus.Write32(off, bitx.Insert(p.bus.Read32(off), mask, bits))
}

// Configure applies one pin-configuration request.
//
// The parallel output bit for a pin is read-only until the pin's AOD
// bit is set, and flipping direction to output before the desired
// level is latched there glitches the pad at the old level. So the
// sequence is fixed: write the full control pattern with direction
// still input and AOD set, preload the parallel output bit, and only
// then flip direction. Direction never transitions to output before
// the target level is latched.
func (p *Port) Configure(pin uint8, cfg PinConfig) error {
	if !p.validPin(pin) {
		return errcode.InvalidPin
	}
	// Open-source (single-ended without open-drain) is not supported
	// by the pad.
	if cfg.SingleEnded && cfg.Drive != OpenDrain {
		return errcode.Unsupported
	}

	// Keep direction as input until last. Clear the input pad disable
	// and power gate so the pad operates.
	mask := ctrlDirMask | ctrlInPadDisMask | ctrlPwrGateMask | ctrlPUDMask |
		ctrlBufTypeMask | ctrlAODMask
	pcr1 := ctrlDirInput | ctrlPwrGateVTR

	switch cfg.Pull {
	case PullUp:
		pcr1 |= ctrlPUDUp
	case PullDown:
		pcr1 |= ctrlPUDDown
	default:
		pcr1 |= ctrlPUDNone
	}

	if cfg.Drive == OpenDrain {
		pcr1 |= ctrlBufTypeOpenDrain
	} else {
		pcr1 |= ctrlBufTypePushPull
	}

	// Let the parallel output register control the pin level instead
	// of the alternate-function path.
	pcr1 |= ctrlAODDisable

	if cfg.Direction == Disconnected {
		pcr1 |= ctrlPwrGateOff
	}

	// With AOD set and direction still input, the parallel output bit
	// below latches without driving the pad.
	p.rmwCtrl(pin, mask, pcr1)

	if cfg.Direction == Output {
		switch cfg.Initial {
		case LevelHigh:
			p.SetBits(bitx.Bit[uint32](int(pin)))
		case LevelLow:
			p.ClearBits(bitx.Bit[uint32](int(pin)))
		}
		p.rmwCtrl(pin, ctrlDirMask, ctrlDirOutput)
	}

	return nil
}

// PinControl returns the pin's control register contents.
func (p *Port) PinControl(pin uint8) (uint32, error) {
	if !p.validPin(pin) {
		return 0, errcode.InvalidPin
	}
	return p.bus.Read32(p.ctrlOff(pin)), nil
}

// In reads the parallel input register: the current electrical level
// of every pin on the port.
func (p *Port) In() uint32 { return p.bus.Read32(p.parinOff()) }

// Out writes the parallel output register whole.
func (p *Port) Out(v uint32) { p.bus.Write32(p.paroutOff(), v) }

// SetMasked replaces the mask-selected output bits with v.
func (p *Port) SetMasked(mask, v uint32) {
	off := p.paroutOff()
	p.bus.Write32(off, bitx.Insert(p.bus.Read32(off), mask, v))
}

// SetBits drives the masked pins high.
func (p *Port) SetBits(mask uint32) {
	off := p.paroutOff()
	p.bus.Write32(off, p.bus.Read32(off)|mask)
}

// ClearBits drives the masked pins low.
func (p *Port) ClearBits(mask uint32) {
	off := p.paroutOff()
	p.bus.Write32(off, p.bus.Read32(off)&^mask)
}

// Toggle inverts the masked output bits.
func (p *Port) Toggle(mask uint32) {
	off := p.paroutOff()
	p.bus.Write32(off, p.bus.Read32(off)^mask)
}

// PinSet drives one output pin.
func (p *Port) PinSet(pin uint8, level bool) error {
	if !p.validPin(pin) {
		return errcode.InvalidPin
	}
	if level {
		p.SetBits(bitx.Bit[uint32](int(pin)))
	} else {
		p.ClearBits(bitx.Bit[uint32](int(pin)))
	}
	return nil
}

// PinIn reads one pin's electrical level.
func (p *Port) PinIn(pin uint8) (bool, error) {
	if !p.validPin(pin) {
		return false, errcode.InvalidPin
	}
	return bitx.Has(p.In(), bitx.Bit[uint32](int(pin))), nil
}

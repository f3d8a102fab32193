package gpio

import (
	"xecgpio-go/errcode"
	"xecgpio-go/mmio"
)

const numPorts = 6

// One row per physical port bank. Valid-pin bitmaps and aggregator
// group assignments follow the MEC15xx pin list; pins are named in
// octal, 32 per bank (000-036, 040-076, ...).
var portTable = [numPorts]PortDesc{
	{Index: 0, ValidPins: 0x7FFFFF9D, CtrlBase: 0x0000, GIRQ: 11}, // GPIO 000-036
	{Index: 1, ValidPins: 0x7FFFFFFD, CtrlBase: 0x0080, GIRQ: 10}, // GPIO 040-076
	{Index: 2, ValidPins: 0x07FF3CF7, CtrlBase: 0x0100, GIRQ: 9},  // GPIO 100-136
	{Index: 3, ValidPins: 0x272EFFFF, CtrlBase: 0x0180, GIRQ: 8},  // GPIO 140-176
	{Index: 4, ValidPins: 0x00DE00FF, CtrlBase: 0x0200, GIRQ: 12}, // GPIO 200-236
	{Index: 5, ValidPins: 0x0000397F, CtrlBase: 0x0280, GIRQ: 26}, // GPIO 240-276
}

// Controller aggregates the six GPIO ports of a MEC15xx-class part
// over one GPIO register block and one ECIA block.
type Controller struct {
	agg   *Aggregator
	ports [numPorts]*Port
}

// NewController builds the port table and turns on the aggregator
// block enable for every port that has an interrupt group, so group
// results reach the core once pins are individually enabled.
func NewController(gpioBus, eciaBus mmio.Bus) *Controller {
	agg := NewAggregator(eciaBus)
	c := &Controller{agg: agg}
	for i, desc := range portTable {
		c.ports[i] = NewPort(desc, gpioBus, agg)
		if desc.GIRQ != 0 {
			agg.EnableBlock(desc.GIRQ)
		}
	}
	return c
}

// Port returns one port view by index.
func (c *Controller) Port(i int) (*Port, error) {
	if i < 0 || i >= numPorts {
		return nil, errcode.UnknownPort
	}
	return c.ports[i], nil
}

// Ports returns the number of ports on this part.
func (c *Controller) Ports() int { return numPorts }

// Aggregator returns the shared interrupt aggregator view.
func (c *Controller) Aggregator() *Aggregator { return c.agg }

// SplitPinName decomposes an octal pin name (e.g. 0o065) into port
// index and bit position within the port.
func SplitPinName(name uint16) (port int, pin uint8) {
	return int(name >> 5), uint8(name & 0x1F)
}

// PinName composes the octal pin name for a port/bit pair.
func PinName(port int, pin uint8) uint16 {
	return uint16(port)<<5 | uint16(pin&0x1F)
}

// ConfigureName configures a pin addressed by its octal name.
func (c *Controller) ConfigureName(name uint16, cfg PinConfig) error {
	idx, pin := SplitPinName(name)
	p, err := c.Port(idx)
	if err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "gpio.ConfigureName", Msg: "no such port", Err: err}
	}
	return p.Configure(pin, cfg)
}

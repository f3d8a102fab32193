// Package pca9554 provides a driver for the PCA9554(A) 8-bit I²C port
// expander. It mirrors the port-controller conventions: per-pin
// configuration preloads the output latch before flipping direction,
// and a shared interrupt line is serviced by reading the input port
// and firing mask-filtered callbacks.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read
// when both w and r are provided, without releasing the bus.
package pca9554

import (
	"errors"
	"sync"

	"tinygo.org/x/drivers"

	"xecgpio-go/x/bitx"
)

// I2C address with A2..A0 strapped low.
const Address = 0x20

// Register map.
const (
	regInput    = 0x00
	regOutput   = 0x01
	regPolarity = 0x02
	regConfig   = 0x03 // 1 = input, per datasheet reset default 0xFF
)

// Errors returned by the driver.
var (
	ErrInvalidPin = errors.New("pca9554: invalid pin")
)

// Callback pairs a mask of expander pins with a handler, invoked from
// ServiceInterrupt with the current input state of the masked pins.
type Callback struct {
	Mask    uint8
	Handler func(pins uint8)
}

// Device wraps an I2C connection to a PCA9554 chip.
type Device struct {
	bus     drivers.I2C
	Address uint16

	// Cached register state so per-pin updates are one bus write.
	output   uint8
	config   uint8
	polarity uint8
	buf      [2]byte

	mu  sync.Mutex
	cbs []*Callback
}

// New creates a new PCA9554 connection. The I2C bus must already be
// configured. This function only creates the Device object; it does
// not touch the device.
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
		config:  0xFF, // reset default: all pins input
	}
}

// Configure reads back the output, configuration and polarity
// registers so the cache matches the chip.
func (d *Device) Configure() error {
	var err error
	if d.output, err = d.readReg(regOutput); err != nil {
		return err
	}
	if d.config, err = d.readReg(regConfig); err != nil {
		return err
	}
	d.polarity, err = d.readReg(regPolarity)
	return err
}

func (d *Device) writeReg(reg, val uint8) error {
	d.buf[0], d.buf[1] = reg, val
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}

// ConfigureInput makes one pin an input.
func (d *Device) ConfigureInput(pin uint8) error {
	if pin > 7 {
		return ErrInvalidPin
	}
	d.config |= bitx.Bit[uint8](int(pin))
	return d.writeReg(regConfig, d.config)
}

// ConfigureOutput makes one pin an output driving initial. The output
// latch is written before the direction register so the pad never
// drives a stale level.
func (d *Device) ConfigureOutput(pin uint8, initial bool) error {
	if pin > 7 {
		return ErrInvalidPin
	}
	mask := bitx.Bit[uint8](int(pin))
	if initial {
		d.output |= mask
	} else {
		d.output &^= mask
	}
	if err := d.writeReg(regOutput, d.output); err != nil {
		return err
	}
	d.config &^= mask
	return d.writeReg(regConfig, d.config)
}

// Set drives one output pin.
func (d *Device) Set(pin uint8, level bool) error {
	if pin > 7 {
		return ErrInvalidPin
	}
	mask := bitx.Bit[uint8](int(pin))
	if level {
		d.output |= mask
	} else {
		d.output &^= mask
	}
	return d.writeReg(regOutput, d.output)
}

// Get reads one pin's current input level.
func (d *Device) Get(pin uint8) (bool, error) {
	if pin > 7 {
		return false, ErrInvalidPin
	}
	in, err := d.readReg(regInput)
	if err != nil {
		return false, err
	}
	return bitx.Has(in, bitx.Bit[uint8](int(pin))), nil
}

// ReadPort reads the whole input register.
func (d *Device) ReadPort() (uint8, error) { return d.readReg(regInput) }

// WritePort writes the whole output register.
func (d *Device) WritePort(v uint8) error {
	d.output = v
	return d.writeReg(regOutput, v)
}

// SetPolarity inverts input readings for the masked pins.
func (d *Device) SetPolarity(mask uint8) error {
	d.polarity = mask
	return d.writeReg(regPolarity, mask)
}

// AddCallback registers a handler for the masked pins.
func (d *Device) AddCallback(cb *Callback) {
	if cb == nil || cb.Handler == nil || cb.Mask == 0 {
		return
	}
	d.mu.Lock()
	d.cbs = append(d.cbs, cb)
	d.mu.Unlock()
}

// RemoveCallback deregisters a previously added callback.
func (d *Device) RemoveCallback(cb *Callback) {
	d.mu.Lock()
	for i, have := range d.cbs {
		if have == cb {
			d.cbs = append(d.cbs[:i], d.cbs[i+1:]...)
			break
		}
	}
	d.mu.Unlock()
}

// ServiceInterrupt handles one assertion of the expander's shared INT
// line: reading the input register releases the line, then callbacks
// fire with the input state of the pins they watch. Only pins
// configured as inputs participate.
func (d *Device) ServiceInterrupt() error {
	in, err := d.readReg(regInput)
	if err != nil {
		return err
	}
	pins := in & d.config

	d.mu.Lock()
	snapshot := make([]*Callback, len(d.cbs))
	copy(snapshot, d.cbs)
	d.mu.Unlock()

	for _, cb := range snapshot {
		if cb.Mask&d.config != 0 {
			cb.Handler(pins & cb.Mask)
		}
	}
	return nil
}

package gpio

import "xecgpio-go/errcode"

// Direction selects how a pin's pad is connected.
type Direction uint8

const (
	// Disconnected gates power off the pad entirely.
	Disconnected Direction = iota
	Input
	Output
)

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type Drive uint8

const (
	PushPull Drive = iota
	OpenDrain
)

// Level is an initial output level request. LevelNone leaves the
// parallel output register untouched.
type Level uint8

const (
	LevelNone Level = iota
	LevelLow
	LevelHigh
)

// PinConfig is one pin-configuration request. The zero value asks for
// a plain input: no pull, push-pull buffer, no initial level.
type PinConfig struct {
	Direction   Direction
	Pull        Pull
	Drive       Drive
	SingleEnded bool
	Initial     Level
}

// IntMode selects the interrupt detection class for a pin.
type IntMode uint8

const (
	IntDisabled IntMode = iota
	IntLevel
	IntEdge
)

// IntTrigger refines IntMode. Level mode accepts TriggerHigh and
// TriggerLow; edge mode accepts TriggerRising, TriggerFalling and
// TriggerBoth.
type IntTrigger uint8

const (
	TriggerNone IntTrigger = iota
	TriggerLow
	TriggerHigh
	TriggerRising
	TriggerFalling
	TriggerBoth
)

// idetPattern maps a mode/trigger pair to the PCR1 detection field.
// Invalid combinations are rejected here, before any register access.
func idetPattern(mode IntMode, trig IntTrigger) (uint32, error) {
	switch mode {
	case IntDisabled:
		// Explicit disable; otherwise the field reads as level/low.
		return ctrlIDetDisable, nil
	case IntLevel:
		switch trig {
		case TriggerHigh:
			return ctrlIDetLevelHi, nil
		case TriggerLow:
			return ctrlIDetLevelLo, nil
		}
	case IntEdge:
		switch trig {
		case TriggerRising:
			return ctrlIDetREdge, nil
		case TriggerFalling:
			return ctrlIDetFEdge, nil
		case TriggerBoth:
			return ctrlIDetBEdge, nil
		}
	}
	return 0, errcode.InvalidArgument
}

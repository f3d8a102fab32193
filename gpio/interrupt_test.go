package gpio

import (
	"testing"

	"xecgpio-go/errcode"
	"xecgpio-go/mmio"
)

func girqOff(reg GirqReg) uint32 { return eciaBase + GirqOffset(testDesc.GIRQ, reg) }

func findWrite(t *testing.T, writes []mmio.Access, off uint32) (int, mmio.Access) {
	t.Helper()
	for i, w := range writes {
		if w.Off == off {
			return i, w
		}
	}
	t.Fatalf("no write at offset %#x in %+v", off, writes)
	return -1, mmio.Access{}
}

func TestConfigureInterrupt_InvalidCombos_NoWrites(t *testing.T) {
	p, sim := newTestPort(t, testDesc)

	cases := []struct {
		mode IntMode
		trig IntTrigger
	}{
		{IntLevel, TriggerBoth},
		{IntLevel, TriggerRising},
		{IntLevel, TriggerNone},
		{IntEdge, TriggerHigh},
		{IntEdge, TriggerLow},
		{IntEdge, TriggerNone},
	}
	for _, tc := range cases {
		if err := p.ConfigureInterrupt(3, tc.mode, tc.trig); err != errcode.InvalidArgument {
			t.Errorf("mode %d trig %d: got %v, want InvalidArgument", tc.mode, tc.trig, err)
		}
	}
	if err := p.ConfigureInterrupt(1, IntEdge, TriggerBoth); err != errcode.InvalidPin {
		t.Errorf("invalid pin: got %v", err)
	}
	if n := len(sim.Trace()); n != 0 {
		t.Fatalf("expected no register accesses, got %d", n)
	}
}

func TestConfigureInterrupt_NoGroup_Unsupported(t *testing.T) {
	desc := testDesc
	desc.GIRQ = 0
	p, sim := newTestPort(t, desc)

	if err := p.ConfigureInterrupt(3, IntEdge, TriggerBoth); err != errcode.Unsupported {
		t.Fatalf("got %v, want Unsupported", err)
	}
	if n := len(sim.Trace()); n != 0 {
		t.Fatalf("expected no register accesses, got %d", n)
	}

	// Disabling detection needs no aggregator and must still work.
	if err := p.ConfigureInterrupt(3, IntDisabled, TriggerNone); err != nil {
		t.Fatalf("disable on plain port: %v", err)
	}
	if got := sim.Peek(4*3) & ctrlIDetMask; got != ctrlIDetDisable {
		t.Fatalf("detection field: %#x", got)
	}
}

func TestConfigureInterrupt_EdgeBoth_Ordering(t *testing.T) {
	p, sim := newTestPort(t, testDesc)

	if err := p.ConfigureInterrupt(3, IntEdge, TriggerBoth); err != nil {
		t.Fatalf("ConfigureInterrupt: %v", err)
	}

	writes := sim.Writes()
	iEnClr, wEnClr := findWrite(t, writes, girqOff(GirqEnClr))
	iCtrl, wCtrl := findWrite(t, writes, 4*3)
	iSrc, wSrc := findWrite(t, writes, girqOff(GirqSrc))
	iEnSet, wEnSet := findWrite(t, writes, girqOff(GirqEnSet))

	// The enable bit is clear while detection mode changes, the stale
	// source is discarded before re-enabling.
	if !(iEnClr < iCtrl && iCtrl < iSrc && iSrc < iEnSet) {
		t.Fatalf("bad order: enclr=%d ctrl=%d src=%d enset=%d", iEnClr, iCtrl, iSrc, iEnSet)
	}
	for _, w := range []mmio.Access{wEnClr, wSrc, wEnSet} {
		if w.Val != 1<<3 {
			t.Errorf("aggregator write should touch only bit 3: %+v", w)
		}
	}
	if wCtrl.Val&ctrlIDetMask != ctrlIDetBEdge {
		t.Errorf("detection field: %#x", wCtrl.Val)
	}

	// A barrier separates the control write from the source clear.
	trace := sim.Trace()
	ctrlAt, srcAt, barrierAt := -1, -1, -1
	for i, a := range trace {
		switch {
		case a.Kind == mmio.WriteAccess && a.Off == 4*3:
			ctrlAt = i
		case a.Kind == mmio.WriteAccess && a.Off == girqOff(GirqSrc):
			srcAt = i
		case a.Kind == mmio.BarrierAccess && barrierAt < 0 && ctrlAt >= 0:
			barrierAt = i
		}
	}
	if !(ctrlAt < barrierAt && barrierAt < srcAt) {
		t.Fatalf("barrier not between control write (%d) and source clear (%d): %d", ctrlAt, srcAt, barrierAt)
	}
}

func TestConfigureInterrupt_LevelModes(t *testing.T) {
	p, sim := newTestPort(t, testDesc)

	if err := p.ConfigureInterrupt(3, IntLevel, TriggerHigh); err != nil {
		t.Fatalf("level high: %v", err)
	}
	if got := sim.Peek(4*3) & ctrlIDetMask; got != ctrlIDetLevelHi {
		t.Errorf("level high field: %#x", got)
	}
	if err := p.ConfigureInterrupt(3, IntLevel, TriggerLow); err != nil {
		t.Fatalf("level low: %v", err)
	}
	if got := sim.Peek(4*3) & ctrlIDetMask; got != ctrlIDetLevelLo {
		t.Errorf("level low field: %#x", got)
	}
}

func TestConfigureInterrupt_Disable_NoReenable(t *testing.T) {
	p, sim := newTestPort(t, testDesc)

	if err := p.ConfigureInterrupt(3, IntEdge, TriggerRising); err != nil {
		t.Fatalf("arm: %v", err)
	}
	sim.ResetTrace()

	if err := p.ConfigureInterrupt(3, IntDisabled, TriggerNone); err != nil {
		t.Fatalf("disable: %v", err)
	}
	writes := sim.Writes()
	iEnClr, _ := findWrite(t, writes, girqOff(GirqEnClr))
	iCtrl, wCtrl := findWrite(t, writes, 4*3)
	if iEnClr > iCtrl {
		t.Fatalf("enable must be cleared before detection rewrite")
	}
	if wCtrl.Val&ctrlIDetMask != ctrlIDetDisable {
		t.Errorf("detection field: %#x", wCtrl.Val)
	}
	for _, w := range writes {
		if w.Off == girqOff(GirqEnSet) || w.Off == girqOff(GirqSrc) {
			t.Fatalf("disable must not touch source/enable-set: %+v", w)
		}
	}
}

func TestConfigureInterrupt_PreservesPinConfig(t *testing.T) {
	p, sim := newTestPort(t, testDesc)

	if err := p.Configure(3, PinConfig{Direction: Output, Pull: PullUp, Initial: LevelHigh}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	before := sim.Peek(4 * 3)

	if err := p.ConfigureInterrupt(3, IntEdge, TriggerFalling); err != nil {
		t.Fatalf("ConfigureInterrupt: %v", err)
	}
	after := sim.Peek(4 * 3)
	if before&^ctrlIDetMask != after&^ctrlIDetMask {
		t.Fatalf("non-detection bits changed: %#x -> %#x", before, after)
	}
}

func TestServiceInterrupt_EchoAndDispatch(t *testing.T) {
	p, sim := newTestPort(t, testDesc)

	var calls int
	var gotPins uint32
	cb := &Callback{Mask: 0xFFFFFFFF, Handler: func(_ *Port, pins uint32) {
		calls++
		gotPins = pins
	}}
	if err := p.AddCallback(cb); err != nil {
		t.Fatalf("AddCallback: %v", err)
	}

	sim.Poke(girqOff(GirqResult), 0b101)
	p.ServiceInterrupt()

	if calls != 1 || gotPins != 0b101 {
		t.Fatalf("callback: calls=%d pins=%#b", calls, gotPins)
	}
	_, src := findWrite(t, sim.Writes(), girqOff(GirqSrc))
	if src.Val != 0b101 {
		t.Fatalf("source clear must echo the result exactly: %#b", src.Val)
	}
}

func TestServiceInterrupt_NoGroup_NoAccess(t *testing.T) {
	desc := testDesc
	desc.GIRQ = 0
	p, sim := newTestPort(t, desc)

	p.ServiceInterrupt()
	if n := len(sim.Trace()); n != 0 {
		t.Fatalf("expected no register accesses, got %d", n)
	}
}

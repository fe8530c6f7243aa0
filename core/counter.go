package core

// narrowSpan is one full turn of a 16-bit counter
const narrowSpan = 1 << 16

// capture latches and returns the raw hardware counter
func (t *hwTimer) capture() uint32 {
	return t.regs.Capture(ccRead)
}

// read returns the virtual counter. On narrow timers the low 16 bits come
// from hardware and the high bits from cntr.
func (t *hwTimer) read() uint32 {
	if !t.narrow {
		return t.capture()
	}

	state := t.ic.Mask(t.irq)
	cntr := t.cntr
	low := t.capture()
	if t.regs.Event(ccOverflow) {
		// Wrapped but the interrupt has not run yet. Account for it here and
		// let the handler see a cleared flag.
		cntr += narrowSpan
		t.cntr = cntr
		low = t.capture()
		t.regs.ClearEvent(ccOverflow)
		t.overflows++
		t.ic.SetPending(t.irq)
	}
	cntr |= low & 0xffff
	t.ic.Restore(t.irq, state)

	return cntr
}

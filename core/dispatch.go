package core

// irqHandler is installed on the timer's interrupt line.
//
// A forced pending interrupt leaves no compare event behind, so the deadline
// flag is only cleared here and the queue is checked on every entry.
func (t *hwTimer) irqHandler() {
	regs := t.regs
	if regs.Event(ccDeadline) {
		regs.ClearEvent(ccDeadline)
	}

	if t.narrow && regs.Event(ccOverflow) {
		regs.ClearEvent(ccOverflow)
		t.cntr += narrowSpan
		t.overflows++
		t.record(EvtOverflow, t.cntr, t.overflows, 0)
	}

	t.isrs++

	t.drain()

	// Read back so a stale event is not seen on the next entry
	_ = regs.Event(ccDeadline)
}

// drain fires every queued timer whose expiry has been reached, then rearms
// for the new head. Callbacks run masked and may start or stop timers.
func (t *hwTimer) drain() {
	state := t.ic.Mask(t.irq)

	for {
		head := t.q.first()
		if head == nil {
			break
		}
		now := t.read()
		if !tickReached(now, head.expiry) {
			break
		}
		t.q.remove(head)
		t.record(EvtTimerFire, head.expiry, now, 0)
		head.cb(head.arg)
	}

	t.rearm()
	t.ic.Restore(t.irq, state)
}

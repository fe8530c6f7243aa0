package core

// arm programs the deadline channel for expiry. Must be called masked.
//
// The counter keeps running while the compare is programmed, so after
// enabling the interrupt the counter is read back and the line is forced
// pending if the deadline already went by.
func (t *hwTimer) arm(expiry uint32) {
	regs := t.regs
	regs.DisableInterrupt(ccDeadline)

	if t.narrow {
		delta := int32(expiry&0xffff0000 - t.cntr)
		switch {
		case delta < 0:
			t.late(expiry)
		case delta == 0:
			low := expiry & 0xffff
			regs.SetCompare(ccDeadline, low)
			regs.ClearEvent(ccDeadline)
			regs.EnableInterrupt(ccDeadline)
			t.record(EvtArm, expiry, low, t.cntr)
			if t.capture()&0xffff >= low {
				t.late(expiry)
			}
		default:
			// Deadline is in a later 16-bit turn. The overflow interrupt
			// drains the queue and rearms once cntr catches up.
			t.record(EvtArmDeferred, expiry, 0, t.cntr)
		}
		return
	}

	regs.SetCompare(ccDeadline, expiry)
	regs.ClearEvent(ccDeadline)
	regs.EnableInterrupt(ccDeadline)
	t.record(EvtArm, expiry, expiry, 0)
	if tickReached(t.capture(), expiry) {
		t.late(expiry)
	}
}

// late forces the interrupt for a deadline that has already passed
func (t *hwTimer) late(expiry uint32) {
	t.record(EvtTimerLate, expiry, 0, t.cntr)
	t.ic.SetPending(t.irq)
}

// disarm stops deadline interrupts. The overflow channel keeps running.
func (t *hwTimer) disarm() {
	t.regs.DisableInterrupt(ccDeadline)
	t.record(EvtDisarm, 0, 0, 0)
}

// rearm points the deadline channel at the current queue head
func (t *hwTimer) rearm() {
	if head := t.q.first(); head != nil {
		t.arm(head.expiry)
	} else {
		t.disarm()
	}
}

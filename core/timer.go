package core

// Callback is run from the timer interrupt with the timer's interrupt masked.
// It must be short and must not block. It may start or stop timers.
type Callback func(arg interface{})

// Timer is a scheduled callback. The caller owns the storage; Bind attaches
// it to a hardware timer and Start/StartAt queue it there.
type Timer struct {
	expiry uint32
	cb     Callback
	arg    interface{}

	next   *Timer
	prev   *Timer
	queued bool
	owner  *hwTimer
}

// Expiry returns the tick the timer was last started for
func (tm *Timer) Expiry() uint32 {
	return tm.expiry
}

// Queued reports whether the timer is waiting to fire
func (tm *Timer) Queued() bool {
	return tm.queued
}

// Bind sets the callback of tm and ties it to timer id. A queued timer can
// only be rebound to the timer it is queued on.
func (ts *Timers) Bind(id int, tm *Timer, cb Callback, arg interface{}) error {
	t, err := ts.resolve(id)
	if err != nil {
		return err
	}
	if tm == nil {
		return ErrInvalidArgument
	}
	if tm.queued {
		if tm.owner != t {
			return ErrInvalidArgument
		}
		state := t.ic.Mask(t.irq)
		t.q.remove(tm)
		t.rearm()
		t.ic.Restore(t.irq, state)
	}

	tm.cb = cb
	tm.arg = arg
	tm.next = nil
	tm.prev = nil
	tm.queued = false
	tm.owner = t
	return nil
}

// Start queues tm to fire ticks from now
func (tm *Timer) Start(ticks uint32) error {
	if ticks == 0 || tm == nil || tm.owner == nil {
		return ErrInvalidArgument
	}
	return tm.StartAt(tm.owner.read() + ticks)
}

// StartAt queues tm to fire at an absolute tick. A tick already in the past
// fires on the next interrupt.
func (tm *Timer) StartAt(tick uint32) error {
	if tm == nil || tm.queued || tm.cb == nil || tm.owner == nil {
		return ErrInvalidArgument
	}
	t := tm.owner
	tm.expiry = tick

	state := t.ic.Mask(t.irq)
	t.q.insert(tm)
	t.record(EvtTimerStart, tick, 0, 0)
	if t.q.first() == tm {
		t.arm(tick)
	}
	t.ic.Restore(t.irq, state)

	return nil
}

// Stop removes tm from its queue. Stopping a timer that is not queued is a
// no-op. Once Stop returns the callback will not run.
func (tm *Timer) Stop() error {
	if tm == nil {
		return ErrInvalidArgument
	}
	t := tm.owner
	if t == nil {
		return nil
	}

	state := t.ic.Mask(t.irq)
	if tm.queued {
		wasHead := t.q.first() == tm
		t.q.remove(tm)
		t.record(EvtTimerStop, tm.expiry, 0, 0)
		if wasHead {
			t.rearm()
		}
	}
	t.ic.Restore(t.irq, state)

	return nil
}

// Read returns the current tick of timer id. It panics if id does not name a
// timer slot.
func (ts *Timers) Read(id int) uint32 {
	return ts.mustResolve(id).read()
}

// Delay spins until ticks have elapsed on timer id
func (ts *Timers) Delay(id int, ticks uint32) {
	t := ts.mustResolve(id)
	until := t.read() + ticks
	for !tickReached(t.read(), until) {
	}
}

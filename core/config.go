package core

// Configure starts timer id counting at the achievable frequency closest to
// freqHz and hooks up its interrupt. Frequency returns the frequency chosen.
func (ts *Timers) Configure(id int, freqHz uint32) error {
	t, err := ts.resolve(id)
	if err != nil {
		return err
	}
	if t.enabled {
		DebugPrintln("[TIMER] configure: timer " + itoa(id) + " already enabled")
		return ErrInvalidArgument
	}

	prescaler, err := prescalerFor(ts.MaxFrequency, freqHz)
	if err != nil {
		DebugPrintln("[TIMER] configure: timer " + itoa(id) + " cannot run at " + utoa(freqHz) + "Hz")
		return err
	}

	t.freq = ts.MaxFrequency >> prescaler
	// Only some peripherals can count 32 bits; the rest are extended in software
	t.narrow = !t.wide
	t.cntr = 0
	t.enabled = true

	state := ts.ic.Mask(t.irq)

	if ts.clock != nil && !ts.clock.Running() {
		ts.clock.Start()
		for !ts.clock.Started() {
		}
	}

	regs := t.regs
	regs.Stop()
	regs.Clear()
	regs.SetPrescaler(prescaler)
	regs.SetMode(ModeTimer)

	if t.narrow {
		regs.SetBitMode(BitMode16)
		regs.SetCompare(ccOverflow, 0)
		regs.ClearEvent(ccOverflow)
		regs.EnableInterrupt(ccOverflow)
	} else {
		regs.SetBitMode(BitMode32)
	}

	regs.Start()

	ts.ic.SetPriority(t.irq, t.priority)
	ts.ic.SetHandler(t.irq, t.irqHandler)
	ts.ic.Enable(t.irq)

	// Timers left queued across a Deinit wait on the new counter
	if !t.q.empty() {
		t.rearm()
	}

	ts.ic.Restore(t.irq, state)

	t.record(EvtConfigure, 0, t.freq, uint32(prescaler))
	DebugPrintln("[TIMER] timer " + itoa(id) + " running at " + utoa(t.freq) + "Hz")
	return nil
}

// Deinit stops timer id. Scheduled timers must be stopped by their owners first;
// anything left queued is neither fired nor dropped until the timer is
// configured again.
func (ts *Timers) Deinit(id int) error {
	t, err := ts.resolve(id)
	if err != nil {
		return err
	}

	state := ts.ic.Mask(t.irq)
	t.regs.DisableInterrupt(ccDeadline)
	t.regs.Stop()
	ts.ic.Restore(t.irq, state)

	t.enabled = false
	t.record(EvtDeinit, 0, 0, 0)
	DebugPrintln("[TIMER] timer " + itoa(id) + " stopped")
	return nil
}

// Resolution returns the timer period in nanoseconds, 0 if id is invalid or
// the timer was never configured
func (ts *Timers) Resolution(id int) uint32 {
	t, err := ts.resolve(id)
	if err != nil || t.freq == 0 {
		return 0
	}
	return 1000000000 / t.freq
}

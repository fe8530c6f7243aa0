package core

import "errors"

// ErrInvalidArgument is returned for bad timer ids, unusable frequencies,
// reconfiguration of an enabled timer and misuse of scheduled timers
var ErrInvalidArgument = errors.New("invalid argument")

// MaxTimers is the number of timer slots a registry can hold
const MaxTimers = 3

// Channel assignments. Channel 0 is left to callers.
const (
	ccOverflow = 1 // fires when a 16-bit counter wraps to 0
	ccRead     = 2 // capture channel used to read the counter
	ccDeadline = 3 // armed for the head of the software queue
)

// Slot describes one hardware timer the board makes available
type Slot struct {
	Regs     TimerPeripheral
	IRQ      IRQ
	Priority uint8
	// Wide is set for peripherals that can count 32 bits. All others run
	// 16 bits wide and are extended in software.
	Wide bool
}

// hwTimer is the runtime state of one hardware timer
type hwTimer struct {
	id        int
	enabled   bool
	irq       IRQ
	narrow    bool
	priority  uint8
	wide      bool
	cntr      uint32 // high 16 bits of the virtual counter on narrow timers
	isrs      uint32
	overflows uint32
	freq      uint32
	regs      TimerPeripheral
	q         timerQueue

	ic   InterruptController
	ring *TimingRing
	ts   *Timers
}

// Timers owns the hardware timer slots of a board. It is built once at
// startup by platform code and passed to whoever schedules timers.
type Timers struct {
	slots [MaxTimers]*hwTimer
	ic    InterruptController
	clock ClockSource
	ring  *TimingRing

	// MaxFrequency is the frequency the prescaler divides
	MaxFrequency uint32
}

// NewTimers builds a registry. slots is indexed by timer id; a nil Regs
// leaves that id unavailable.
func NewTimers(ic InterruptController, clock ClockSource, maxFreq uint32, slots ...Slot) *Timers {
	ts := &Timers{
		ic:           ic,
		clock:        clock,
		MaxFrequency: maxFreq,
	}
	for i, s := range slots {
		if i >= MaxTimers || s.Regs == nil {
			continue
		}
		ts.slots[i] = &hwTimer{
			id:       i,
			irq:      s.IRQ,
			priority: s.Priority,
			wide:     s.Wide,
			regs:     s.Regs,
			ic:       ic,
			ts:       ts,
		}
	}
	return ts
}

// SetTimingRing attaches a ring that records driver events. nil disables recording.
func (ts *Timers) SetTimingRing(r *TimingRing) {
	ts.ring = r
	for _, t := range ts.slots {
		if t != nil {
			t.ring = r
		}
	}
}

// resolve maps a timer id to its slot
func (ts *Timers) resolve(id int) (*hwTimer, error) {
	if id < 0 || id >= MaxTimers {
		return nil, ErrInvalidArgument
	}
	t := ts.slots[id]
	if t == nil {
		return nil, ErrInvalidArgument
	}
	return t, nil
}

// mustResolve is resolve for call shapes without an error return
func (ts *Timers) mustResolve(id int) *hwTimer {
	t, err := ts.resolve(id)
	if err != nil {
		panic("hwtimer: invalid timer " + itoa(id))
	}
	return t
}

// TimerStats reports interrupt accounting for one timer
type TimerStats struct {
	Interrupts uint32
	Overflows  uint32
	Pending    int
}

// Stats returns interrupt counters and the number of queued timers
func (ts *Timers) Stats(id int) (TimerStats, error) {
	t, err := ts.resolve(id)
	if err != nil {
		return TimerStats{}, err
	}
	state := t.ic.Mask(t.irq)
	defer t.ic.Restore(t.irq, state)

	return TimerStats{
		Interrupts: t.isrs,
		Overflows:  t.overflows,
		Pending:    t.q.len(),
	}, nil
}

// Enabled reports whether timer id has been configured
func (ts *Timers) Enabled(id int) bool {
	t, err := ts.resolve(id)
	return err == nil && t.enabled
}

// Frequency returns the effective counting frequency of timer id, 0 if invalid
func (ts *Timers) Frequency(id int) uint32 {
	t, err := ts.resolve(id)
	if err != nil {
		return 0
	}
	return t.freq
}

// record adds an event to the ring. The ring is shared by every timer, so
// all lines are held off while it is written, whatever the caller masked.
func (t *hwTimer) record(evt uint8, clock, v1, v2 uint32) {
	if t.ring == nil {
		return
	}
	states := t.ts.maskAll()
	t.ring.Record(evt, uint8(t.id), clock, v1, v2)
	t.ts.restoreAll(states)
}

// maskAll masks the line of every timer slot
func (ts *Timers) maskAll() [MaxTimers]State {
	var states [MaxTimers]State
	for i, t := range ts.slots {
		if t != nil {
			states[i] = ts.ic.Mask(t.irq)
		}
	}
	return states
}

// restoreAll undoes maskAll in reverse order
func (ts *Timers) restoreAll(states [MaxTimers]State) {
	for i := MaxTimers - 1; i >= 0; i-- {
		if t := ts.slots[i]; t != nil {
			ts.ic.Restore(t.irq, states[i])
		}
	}
}

// TimingRing returns the attached ring, nil if none
func (ts *Timers) TimingRing() *TimingRing {
	return ts.ring
}

// TakeTiming returns the recorded events oldest first and empties the ring.
// All timer lines are masked while the ring is copied.
func (ts *Timers) TakeTiming() []TimingEvent {
	if ts.ring == nil {
		return nil
	}

	states := ts.maskAll()
	events := ts.ring.Snapshot()
	ts.ring.Clear()
	ts.restoreAll(states)
	return events
}

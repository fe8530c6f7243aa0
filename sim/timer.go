package sim

import "hwtimer/core"

// Channels is the number of capture/compare channels per timer
const Channels = 4

// InterruptSink receives the interrupt requests of a timer
type InterruptSink interface {
	SetPending(irq core.IRQ)
}

// Timer models one nRF51 TIMER instance. The counter only moves when Advance
// is called, one tick per call unit, which makes runs reproducible.
type Timer struct {
	counter   uint32
	prescaler uint8
	bitMode   core.BitMode
	mode      core.TimerMode
	running   bool
	cc        [Channels]uint32
	events    [Channels]bool
	inten     uint8

	irq  core.IRQ
	sink InterruptSink

	// OnCapture runs before every capture, letting time pass between reads
	OnCapture   func(t *Timer)
	inCapture   bool
	captures    uint32
	wideCapable bool
}

// NewTimer creates a stopped timer raising irq on sink. wide marks
// peripherals that support 32-bit mode.
func NewTimer(irq core.IRQ, sink InterruptSink, wide bool) *Timer {
	return &Timer{
		irq:         irq,
		sink:        sink,
		wideCapable: wide,
	}
}

func (t *Timer) mask() uint32 {
	if t.bitMode == core.BitMode32 {
		return 0xffffffff
	}
	return 0xffff
}

func (t *Timer) Start() { t.running = true }
func (t *Timer) Stop()  { t.running = false }
func (t *Timer) Clear() { t.counter = 0 }

func (t *Timer) SetPrescaler(prescaler uint8) {
	t.prescaler = prescaler & 0x0f
}

func (t *Timer) SetMode(mode core.TimerMode) {
	t.mode = mode
}

// SetBitMode sets the counter width. A 16-bit-only peripheral ignores 32-bit
// requests, like the hardware does.
func (t *Timer) SetBitMode(mode core.BitMode) {
	if mode == core.BitMode32 && !t.wideCapable {
		mode = core.BitMode16
	}
	t.bitMode = mode
	t.counter &= t.mask()
}

func (t *Timer) Capture(ch int) uint32 {
	if t.OnCapture != nil && !t.inCapture {
		t.inCapture = true
		t.OnCapture(t)
		t.inCapture = false
	}
	t.captures++
	t.cc[ch] = t.counter
	return t.counter
}

func (t *Timer) SetCompare(ch int, value uint32) {
	t.cc[ch] = value & t.mask()
}

func (t *Timer) Compare(ch int) uint32 {
	return t.cc[ch]
}

func (t *Timer) Event(ch int) bool {
	return t.events[ch]
}

func (t *Timer) ClearEvent(ch int) {
	t.events[ch] = false
}

func (t *Timer) EnableInterrupt(ch int) {
	t.inten |= 1 << uint(ch)
}

func (t *Timer) DisableInterrupt(ch int) {
	t.inten &^= 1 << uint(ch)
}

// InterruptEnabled reports the interrupt enable of channel ch
func (t *Timer) InterruptEnabled(ch int) bool {
	return t.inten&(1<<uint(ch)) != 0
}

// Counter returns the raw counter without touching any channel
func (t *Timer) Counter() uint32 {
	return t.counter
}

// Running reports whether the timer is counting
func (t *Timer) Running() bool {
	return t.running
}

// Prescaler returns the programmed prescaler
func (t *Timer) Prescaler() uint8 {
	return t.prescaler
}

// BitMode returns the effective counter width
func (t *Timer) BitMode() core.BitMode {
	return t.bitMode
}

// Captures returns how many captures were taken
func (t *Timer) Captures() uint32 {
	return t.captures
}

// SetCounter moves the counter without generating compare events
func (t *Timer) SetCounter(v uint32) {
	t.counter = v & t.mask()
}

// Advance moves the counter forward by ticks. Every compare match along the
// way sets its event and, if enabled, raises the interrupt at the tick it
// happens, so handlers observe the counter where real hardware would.
func (t *Timer) Advance(ticks uint64) {
	for ticks > 0 && t.running && t.mode == core.ModeTimer {
		mask := t.mask()
		step := ticks
		for ch := 0; ch < Channels; ch++ {
			// Ticks until the counter next equals cc[ch]
			d := uint64((t.cc[ch]-t.counter-1)&mask) + 1
			if d < step {
				step = d
			}
		}
		t.counter = uint32((uint64(t.counter) + step) & uint64(mask))
		ticks -= step

		for ch := 0; ch < Channels; ch++ {
			if t.counter == t.cc[ch] {
				t.events[ch] = true
				if t.InterruptEnabled(ch) && t.sink != nil {
					t.sink.SetPending(t.irq)
				}
			}
		}
	}
}

package sim

import "hwtimer/core"

// nRF51 interrupt numbers of TIMER0..2
const (
	IRQTimer0 core.IRQ = 8
	IRQTimer1 core.IRQ = 9
	IRQTimer2 core.IRQ = 10
)

// MaxTimerFreq is the nRF51 timer base clock
const MaxTimerFreq = 16000000

// Board wires three simulated timers to one simulated NVIC. TIMER0 can count
// 32 bits, TIMER1 and TIMER2 only 16.
type Board struct {
	NVIC   *NVIC
	Clock  *Clock
	Timers [core.MaxTimers]*Timer
}

// NewBoard creates a board whose oscillator needs a few polls to start
func NewBoard() *Board {
	b := &Board{
		NVIC:  NewNVIC(),
		Clock: NewClock(3),
	}
	irqs := [core.MaxTimers]core.IRQ{IRQTimer0, IRQTimer1, IRQTimer2}
	for i := range b.Timers {
		b.Timers[i] = NewTimer(irqs[i], b.NVIC, i == 0)
	}
	return b
}

// Slot describes timer id for core.NewTimers
func (b *Board) Slot(id int, priority uint8) core.Slot {
	t := b.Timers[id]
	return core.Slot{
		Regs:     t,
		IRQ:      t.irq,
		Priority: priority,
		Wide:     t.wideCapable,
	}
}

// Registry builds a driver registry over all three timers
func (b *Board) Registry() *core.Timers {
	return core.NewTimers(b.NVIC, b.Clock, MaxTimerFreq,
		b.Slot(0, 1), b.Slot(1, 1), b.Slot(2, 1))
}

// Advance moves every timer forward by ticks of its own frequency
func (b *Board) Advance(ticks uint64) {
	for _, t := range b.Timers {
		t.Advance(ticks)
	}
}

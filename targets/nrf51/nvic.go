//go:build nrf51

package main

import (
	"device/arm"
	"device/nrf"
	"runtime/interrupt"

	"hwtimer/core"
)

// nvic implements core.InterruptController on the Cortex-M0 NVIC. Handlers
// are installed at compile time as trampolines that look up the function
// the driver registered for the line.
type nvic struct{}

var handlers [nrf.IRQ_max + 1]func()

func init() {
	interrupt.New(nrf.IRQ_TIMER0, func(interrupt.Interrupt) { dispatch(nrf.IRQ_TIMER0) })
	interrupt.New(nrf.IRQ_TIMER1, func(interrupt.Interrupt) { dispatch(nrf.IRQ_TIMER1) })
	interrupt.New(nrf.IRQ_TIMER2, func(interrupt.Interrupt) { dispatch(nrf.IRQ_TIMER2) })
}

func dispatch(irq int) {
	if h := handlers[irq]; h != nil {
		h()
	}
}

func (nvic) Enable(irq core.IRQ)  { arm.EnableIRQ(uint32(irq)) }
func (nvic) Disable(irq core.IRQ) { arm.DisableIRQ(uint32(irq)) }

// SetPriority takes the 2-bit nRF51 priority, 0 highest
func (nvic) SetPriority(irq core.IRQ, priority uint8) {
	arm.SetPriority(uint32(irq), uint32(priority&0x3)<<6)
}

func (nvic) SetHandler(irq core.IRQ, handler func()) {
	handlers[irq] = handler
}

func (nvic) SetPending(irq core.IRQ) {
	arm.NVIC.ISPR[irq>>5].Set(1 << (uint32(irq) & 0x1f))
}

// Mask disables all interrupts; the M0 has no BASEPRI to mask by priority
func (nvic) Mask(irq core.IRQ) core.State {
	return core.State(interrupt.Disable())
}

func (nvic) Restore(irq core.IRQ, state core.State) {
	interrupt.Restore(interrupt.State(state))
}

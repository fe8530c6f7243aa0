// Package sim models the nRF51 timer peripheral, its interrupt controller
// and clock on the host so the timer driver can run without hardware.
//
// Interrupts are delivered synchronously: a line that becomes pending while
// enabled and unmasked runs its handler before SetPending returns, and a
// masked line runs it when the last Restore unmasks it. That matches the
// ordering a single-core MCU gives an interrupt that preempts the caller.
package sim

import "hwtimer/core"

type line struct {
	enabled  bool
	pending  bool
	active   bool
	masked   int
	priority uint8
	handler  func()
	count    uint32
}

// NVIC is a host model of the interrupt controller
type NVIC struct {
	lines map[core.IRQ]*line
}

// NewNVIC creates a controller with every line disabled
func NewNVIC() *NVIC {
	return &NVIC{lines: make(map[core.IRQ]*line)}
}

func (n *NVIC) line(irq core.IRQ) *line {
	l, ok := n.lines[irq]
	if !ok {
		l = &line{}
		n.lines[irq] = l
	}
	return l
}

func (n *NVIC) Enable(irq core.IRQ) {
	l := n.line(irq)
	l.enabled = true
	n.deliver(l)
}

func (n *NVIC) Disable(irq core.IRQ) {
	n.line(irq).enabled = false
}

func (n *NVIC) SetPriority(irq core.IRQ, priority uint8) {
	n.line(irq).priority = priority
}

func (n *NVIC) SetHandler(irq core.IRQ, handler func()) {
	n.line(irq).handler = handler
}

func (n *NVIC) SetPending(irq core.IRQ) {
	l := n.line(irq)
	l.pending = true
	n.deliver(l)
}

// Mask masks irq and returns the previous mask depth
func (n *NVIC) Mask(irq core.IRQ) core.State {
	l := n.line(irq)
	prev := l.masked
	l.masked++
	return core.State(prev)
}

// Restore returns irq to the mask depth saved by Mask and delivers a pending
// interrupt once the line is fully unmasked
func (n *NVIC) Restore(irq core.IRQ, state core.State) {
	l := n.line(irq)
	l.masked = int(state)
	n.deliver(l)
}

func (n *NVIC) deliver(l *line) {
	for l.pending && l.enabled && l.masked == 0 && !l.active && l.handler != nil {
		l.pending = false
		l.active = true
		l.count++
		l.handler()
		l.active = false
	}
}

// Pending reports whether irq is waiting to be serviced
func (n *NVIC) Pending(irq core.IRQ) bool {
	return n.line(irq).pending
}

// Enabled reports whether irq is enabled
func (n *NVIC) Enabled(irq core.IRQ) bool {
	return n.line(irq).enabled
}

// Masked reports whether irq is inside a critical section
func (n *NVIC) Masked(irq core.IRQ) bool {
	return n.line(irq).masked > 0
}

// Priority returns the priority set for irq
func (n *NVIC) Priority(irq core.IRQ) uint8 {
	return n.line(irq).priority
}

// Serviced returns how many times the handler of irq ran
func (n *NVIC) Serviced(irq core.IRQ) uint32 {
	return n.line(irq).count
}

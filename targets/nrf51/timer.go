//go:build nrf51

package main

import (
	"device/nrf"

	"hwtimer/core"
)

// intMask is the INTENSET/INTENCLR bit of compare channel ch
func intMask(ch int) uint32 {
	return (1 << uint32(ch)) << nrf.TIMER_INTENSET_COMPARE0_Pos
}

// nrfTimer binds core.TimerPeripheral to a TIMER register block
type nrfTimer struct {
	regs *nrf.TIMER_Type
}

func (t nrfTimer) Start() { t.regs.TASKS_START.Set(1) }
func (t nrfTimer) Stop()  { t.regs.TASKS_STOP.Set(1) }
func (t nrfTimer) Clear() { t.regs.TASKS_CLEAR.Set(1) }

func (t nrfTimer) SetPrescaler(prescaler uint8) {
	t.regs.PRESCALER.Set(uint32(prescaler))
}

func (t nrfTimer) SetMode(mode core.TimerMode) {
	if mode == core.ModeCounter {
		t.regs.MODE.Set(nrf.TIMER_MODE_MODE_Counter)
		return
	}
	t.regs.MODE.Set(nrf.TIMER_MODE_MODE_Timer)
}

func (t nrfTimer) SetBitMode(mode core.BitMode) {
	if mode == core.BitMode32 {
		t.regs.BITMODE.Set(nrf.TIMER_BITMODE_BITMODE_32Bit)
		return
	}
	t.regs.BITMODE.Set(nrf.TIMER_BITMODE_BITMODE_16Bit)
}

func (t nrfTimer) Capture(ch int) uint32 {
	t.regs.TASKS_CAPTURE[ch].Set(1)
	return t.regs.CC[ch].Get()
}

func (t nrfTimer) SetCompare(ch int, value uint32) { t.regs.CC[ch].Set(value) }
func (t nrfTimer) Compare(ch int) uint32           { return t.regs.CC[ch].Get() }
func (t nrfTimer) Event(ch int) bool               { return t.regs.EVENTS_COMPARE[ch].Get() != 0 }
func (t nrfTimer) ClearEvent(ch int)               { t.regs.EVENTS_COMPARE[ch].Set(0) }
func (t nrfTimer) EnableInterrupt(ch int)          { t.regs.INTENSET.Set(intMask(ch)) }
func (t nrfTimer) DisableInterrupt(ch int)         { t.regs.INTENCLR.Set(intMask(ch)) }

// hfxo is the 16MHz crystal that clocks the timers
type hfxo struct{}

func (hfxo) Running() bool {
	return nrf.CLOCK.HFCLKSTAT.Get()&nrf.CLOCK_HFCLKSTAT_STATE_Msk != 0
}

func (hfxo) Start() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
}

func (hfxo) Started() bool {
	return nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() != 0
}

//go:build nrf51

package main

import (
	"device/nrf"
	"machine"

	"hwtimer/config"
	"hwtimer/core"
	"hwtimer/protocol"
)

// nRF51 timers count from the 16MHz HFCLK
const maxTimerFreq = 16000000

// flushTicks is how often trace events are drained, in ticks of timer 0
const flushTicks = 20000

var (
	output *protocol.ScratchOutput
	enc    *protocol.TraceEncoder
	timers *core.Timers
)

func main() {
	initUART()

	cfg := config.DefaultNRF51Config()
	timers = newTimers(cfg)
	timers.SetTimingRing(core.NewTimingRing())

	for _, tc := range cfg.Timers {
		if !tc.Enabled {
			continue
		}
		if err := timers.Configure(tc.ID, tc.FrequencyHz); err != nil {
			core.DebugPrintln("configure timer failed: " + err.Error())
			halt()
		}
	}

	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for i, demo := range cfg.Demo {
		p := &core.Periodic{Period: demo.Period, Count: demo.Count}
		if i == 0 {
			p.OnFire = toggleLED
		}
		if err := timers.StartPeriodic(demo.Timer, p); err != nil {
			core.DebugPrintln("start " + demo.Name + " failed: " + err.Error())
			halt()
		}
	}

	output = protocol.NewScratchOutput()
	enc = protocol.NewTraceEncoder(output)

	for {
		timers.Delay(0, flushTicks)
		flushTrace()
	}
}

func newTimers(cfg *config.BoardConfig) *core.Timers {
	regs := [core.MaxTimers]*nrf.TIMER_Type{nrf.TIMER0, nrf.TIMER1, nrf.TIMER2}
	irqs := [core.MaxTimers]core.IRQ{nrf.IRQ_TIMER0, nrf.IRQ_TIMER1, nrf.IRQ_TIMER2}

	slots := make([]core.Slot, core.MaxTimers)
	for _, tc := range cfg.Timers {
		if !tc.Enabled {
			continue
		}
		slots[tc.ID] = core.Slot{
			Regs:     nrfTimer{regs: regs[tc.ID]},
			IRQ:      irqs[tc.ID],
			Priority: tc.IRQPriority(),
			Wide:     tc.ID == 0,
		}
	}

	var clock core.ClockSource = hfxo{}
	if !cfg.HFXOStart {
		clock = nil
	}
	return core.NewTimers(nvic{}, clock, maxTimerFreq, slots...)
}

func toggleLED(p *core.Periodic) {
	if p.Fired()&1 != 0 {
		machine.LED.High()
	} else {
		machine.LED.Low()
	}
}

// flushTrace sends recorded events to the host in small batches so each
// batch fits the scratch buffer
func flushTrace() {
	events := timers.TakeTiming()
	for len(events) > 0 {
		n := len(events)
		if n > 16 {
			n = 16
		}
		output.Reset()
		core.EncodeTimingEvents(enc, events[:n])
		uart.Write(output.Result())
		events = events[n:]
	}
}

func halt() {
	for {
		machine.LED.High()
	}
}

package tracer

import (
	"fmt"
	"time"

	"hwtimer/config"
	"hwtimer/core"
	"hwtimer/protocol"
	"hwtimer/sim"
)

// Simulate runs the driver on a simulated board in real time for duration,
// scheduling the demo timers of cfg. Events travel through the same block
// encoding the firmware uses before landing in the capture.
func Simulate(cfg *config.BoardConfig, duration time.Duration, c *Capture) error {
	board := sim.NewBoard()
	if !cfg.HFXOStart {
		board.Clock = sim.NewRunningClock()
	}

	slots := make([]core.Slot, core.MaxTimers)
	for _, tc := range cfg.Timers {
		if tc.Enabled {
			slots[tc.ID] = board.Slot(tc.ID, tc.IRQPriority())
		}
	}
	timers := core.NewTimers(board.NVIC, board.Clock, sim.MaxTimerFreq, slots...)
	timers.SetTimingRing(core.NewTimingRing())

	for _, tc := range cfg.Timers {
		if !tc.Enabled {
			continue
		}
		if err := timers.Configure(tc.ID, tc.FrequencyHz); err != nil {
			return fmt.Errorf("configure timer %d at %dHz: %w", tc.ID, tc.FrequencyHz, err)
		}
	}

	wall := sim.NewWallClock(sim.MaxTimerFreq, board.Timers[:]...)
	wall.Attach()

	periodics := make([]*core.Periodic, len(cfg.Demo))
	for i, demo := range cfg.Demo {
		p := &core.Periodic{Period: demo.Period, Count: demo.Count}
		if err := timers.StartPeriodic(demo.Timer, p); err != nil {
			return fmt.Errorf("start %s: %w", demo.Name, err)
		}
		periodics[i] = p
	}

	out := protocol.NewScratchOutput()
	enc := protocol.NewTraceEncoder(out)
	flush := func() {
		events := timers.TakeTiming()
		for len(events) > 0 {
			// Keep each batch well inside the scratch buffer
			n := len(events)
			if n > 16 {
				n = 16
			}
			out.Reset()
			core.EncodeTimingEvents(enc, events[:n])
			c.Feed(out.Result())
			events = events[n:]
		}
	}

	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		wall.Poll()
		flush()
		time.Sleep(time.Millisecond)
	}

	for i, p := range periodics {
		if err := p.Stop(); err != nil {
			return fmt.Errorf("stop %s: %w", cfg.Demo[i].Name, err)
		}
	}
	for _, tc := range cfg.Timers {
		if tc.Enabled {
			if err := timers.Deinit(tc.ID); err != nil {
				return err
			}
		}
	}
	flush()
	return nil
}

package sim

import "github.com/aristanetworks/goarista/monotime"

// WallClock advances simulated timers in step with the host's monotonic
// clock, so a simulated 1MHz timer counts a million ticks per real second
type WallClock struct {
	baseFreq uint64
	last     uint64
	polling  bool
	timers   []*wallTimer
}

type wallTimer struct {
	t   *Timer
	rem uint64 // sub-tick remainder in Hz*ns
}

// NewWallClock creates a clock feeding timers whose prescaler divides baseFreq
func NewWallClock(baseFreq uint32, timers ...*Timer) *WallClock {
	w := &WallClock{
		baseFreq: uint64(baseFreq),
		last:     monotime.Now(),
	}
	for _, t := range timers {
		w.timers = append(w.timers, &wallTimer{t: t})
	}
	return w
}

// Attach makes every capture on the attached timers sync with real time
// first, so busy-wait loops reading the counter make progress
func (w *WallClock) Attach() {
	for _, wt := range w.timers {
		wt.t.OnCapture = func(*Timer) { w.Poll() }
	}
}

// Poll advances every running timer by the time elapsed since the last poll
func (w *WallClock) Poll() {
	if w.polling {
		return
	}
	w.polling = true
	defer func() { w.polling = false }()

	now := monotime.Now()
	elapsed := now - w.last
	w.last = now
	if elapsed == 0 {
		return
	}
	for _, wt := range w.timers {
		if !wt.t.Running() {
			continue
		}
		freq := w.baseFreq >> wt.t.Prescaler()
		total := elapsed*freq + wt.rem
		ticks := total / 1000000000
		wt.rem = total % 1000000000
		if ticks > 0 {
			wt.t.Advance(ticks)
		}
	}
}

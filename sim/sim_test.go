package sim

import (
	"testing"
	"time"

	"hwtimer/core"
)

type pendingLog struct {
	irqs []core.IRQ
}

func (p *pendingLog) SetPending(irq core.IRQ) {
	p.irqs = append(p.irqs, irq)
}

func TestTimerCompareEvents(t *testing.T) {
	sink := &pendingLog{}
	tm := NewTimer(IRQTimer1, sink, false)
	tm.SetMode(core.ModeTimer)
	tm.SetBitMode(core.BitMode32)
	if tm.BitMode() != core.BitMode16 {
		t.Fatal("16-bit timer accepted 32-bit mode")
	}

	tm.SetCompare(3, 100)
	tm.EnableInterrupt(3)
	tm.Start()

	tm.Advance(99)
	if tm.Event(3) || len(sink.irqs) != 0 {
		t.Fatal("Compare matched early")
	}
	tm.Advance(1)
	if !tm.Event(3) || len(sink.irqs) != 1 || sink.irqs[0] != IRQTimer1 {
		t.Errorf("Compare at 100 not raised: event=%v irqs=%v", tm.Event(3), sink.irqs)
	}

	tm.ClearEvent(3)
	tm.DisableInterrupt(3)
	tm.Advance(1 << 16)
	if !tm.Event(3) {
		t.Error("Compare event not set after a full turn")
	}
	if len(sink.irqs) != 1 {
		t.Error("Disabled channel raised an interrupt")
	}
	if tm.Counter() != 100 {
		t.Errorf("Counter = %d after a full turn, want 100", tm.Counter())
	}
}

func TestTimerStoppedDoesNotCount(t *testing.T) {
	tm := NewTimer(IRQTimer0, nil, true)
	tm.Advance(10)
	if tm.Counter() != 0 {
		t.Errorf("Stopped timer counted to %d", tm.Counter())
	}

	tm.Start()
	tm.SetMode(core.ModeCounter)
	tm.Advance(10)
	if tm.Counter() != 0 {
		t.Errorf("Counter mode timer counted ticks")
	}
}

func TestTimerCapture(t *testing.T) {
	tm := NewTimer(IRQTimer0, nil, true)
	tm.SetBitMode(core.BitMode32)
	tm.Start()
	tm.OnCapture = func(tm *Timer) { tm.Advance(5) }

	if got := tm.Capture(2); got != 5 {
		t.Errorf("Capture = %d, want 5", got)
	}
	if tm.Compare(2) != 5 || tm.Captures() != 1 {
		t.Errorf("Capture did not latch into CC[2]")
	}
}

func TestNVICDelivery(t *testing.T) {
	n := NewNVIC()
	runs := 0
	n.SetHandler(IRQTimer0, func() { runs++ })

	n.SetPending(IRQTimer0)
	if runs != 0 || !n.Pending(IRQTimer0) {
		t.Fatal("Disabled line delivered")
	}

	n.Enable(IRQTimer0)
	if runs != 1 || n.Pending(IRQTimer0) {
		t.Fatalf("Enable did not deliver the pending interrupt, runs=%d", runs)
	}

	outer := n.Mask(IRQTimer0)
	inner := n.Mask(IRQTimer0)
	n.SetPending(IRQTimer0)
	n.Restore(IRQTimer0, inner)
	if runs != 1 {
		t.Error("Delivered inside the outer critical section")
	}
	n.Restore(IRQTimer0, outer)
	if runs != 2 || n.Masked(IRQTimer0) {
		t.Errorf("Not delivered on final restore, runs=%d", runs)
	}
	if n.Serviced(IRQTimer0) != 2 {
		t.Errorf("Serviced = %d", n.Serviced(IRQTimer0))
	}
}

func TestNVICNoReentry(t *testing.T) {
	n := NewNVIC()
	runs := 0
	n.SetHandler(IRQTimer2, func() {
		runs++
		if runs == 1 {
			n.SetPending(IRQTimer2)
			if runs != 1 {
				t.Error("Handler preempted itself")
			}
		}
	})
	n.Enable(IRQTimer2)
	n.SetPending(IRQTimer2)

	if runs != 2 {
		t.Errorf("Re-pended interrupt ran %d times, want 2", runs)
	}
}

func TestClockStartup(t *testing.T) {
	c := NewClock(2)
	if c.Running() || c.Started() {
		t.Fatal("New clock should be stopped")
	}

	c.Start()
	polls := 0
	for !c.Started() {
		polls++
	}
	if polls != 2 || !c.Running() {
		t.Errorf("Clock started after %d polls, want 2", polls)
	}
}

func TestWallClock(t *testing.T) {
	board := NewBoard()
	timers := board.Registry()
	if err := timers.Configure(0, 1000000); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	wall := NewWallClock(MaxTimerFreq, board.Timers[:]...)
	wall.Attach()

	start := timers.Read(0)
	time.Sleep(20 * time.Millisecond)
	elapsed := timers.Read(0) - start

	// 1MHz for at least 20ms
	if elapsed < 20000 {
		t.Errorf("Counter moved %d ticks in 20ms", elapsed)
	}
	if board.Timers[1].Counter() != 0 {
		t.Error("Stopped timer advanced")
	}
}

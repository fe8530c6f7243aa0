package core

// Periodic is a Timer that restarts itself every Period ticks. Each expiry is
// computed from the previous one, so callback latency does not accumulate.
type Periodic struct {
	Timer  Timer
	Period uint32

	// Count limits the number of firings, 0 runs until stopped
	Count int

	// OnFire runs from the timer interrupt after each expiry
	OnFire func(p *Periodic)

	fired   uint32
	stopped bool
}

// StartPeriodic binds p to timer id and schedules its first expiry one
// period from now
func (ts *Timers) StartPeriodic(id int, p *Periodic) error {
	if p == nil || p.Period == 0 {
		return ErrInvalidArgument
	}
	if err := ts.Bind(id, &p.Timer, p.fire, nil); err != nil {
		return err
	}
	p.fired = 0
	p.stopped = false
	return p.Timer.Start(p.Period)
}

// Fired returns how many times p has expired since it was started
func (p *Periodic) Fired() uint32 {
	return p.fired
}

// Stop cancels the next expiry. Called from OnFire it keeps p from
// restarting.
func (p *Periodic) Stop() error {
	p.stopped = true
	return p.Timer.Stop()
}

func (p *Periodic) fire(interface{}) {
	p.fired++
	if p.OnFire != nil {
		p.OnFire(p)
	}
	if p.stopped {
		return
	}
	if p.Count > 0 && int(p.fired) >= p.Count {
		return
	}
	if p.Timer.queued {
		// OnFire restarted it
		return
	}
	_ = p.Timer.StartAt(p.Timer.expiry + p.Period)
}

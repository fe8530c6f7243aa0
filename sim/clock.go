package sim

// Clock models the high frequency crystal oscillator. After Start it reports
// Started once StartupPolls more polls have happened.
type Clock struct {
	running      bool
	requested    bool
	polls        int
	StartupPolls int
	Starts       int
}

// NewClock returns a stopped oscillator that takes startupPolls polls to start
func NewClock(startupPolls int) *Clock {
	return &Clock{StartupPolls: startupPolls}
}

// NewRunningClock returns an oscillator that is already up
func NewRunningClock() *Clock {
	return &Clock{running: true}
}

func (c *Clock) Running() bool {
	return c.running
}

func (c *Clock) Start() {
	c.requested = true
	c.polls = 0
	c.Starts++
}

func (c *Clock) Started() bool {
	if c.running {
		return true
	}
	if !c.requested {
		return false
	}
	if c.polls >= c.StartupPolls {
		c.running = true
		return true
	}
	c.polls++
	return false
}

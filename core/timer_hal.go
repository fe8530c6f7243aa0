package core

// IRQ identifies an interrupt line of the interrupt controller
type IRQ uint32

// State is the saved mask state returned by InterruptController.Mask
type State uintptr

// InterruptController is the interrupt controller capability the timer driver consumes.
// Platform code implements it on top of the NVIC; the sim package provides a host model.
type InterruptController interface {
	// Enable unmasks the line at the controller
	Enable(irq IRQ)

	// Disable masks the line at the controller
	Disable(irq IRQ)

	// SetPriority sets the line priority
	SetPriority(irq IRQ, priority uint8)

	// SetHandler installs the function run when the line fires
	SetHandler(irq IRQ, handler func())

	// SetPending forces the line pending; the handler runs as soon as the line is
	// enabled and not masked
	SetPending(irq IRQ)

	// Mask enters a critical section that keeps at least irq from being serviced.
	// Calls nest: each Mask must be paired with a Restore of the returned state.
	// Implementations may disable all interrupts.
	Mask(irq IRQ) State

	// Restore leaves a critical section entered with Mask
	Restore(irq IRQ, state State)
}

// BitMode is the counting width of a timer peripheral
type BitMode uint8

const (
	BitMode16 BitMode = iota
	BitMode32
)

// TimerMode selects what the counter increments on
type TimerMode uint8

const (
	ModeTimer TimerMode = iota
	ModeCounter
)

// TimerPeripheral is the register-level view of one counter/compare timer.
// Channel numbers index capture/compare registers and their events.
type TimerPeripheral interface {
	// Start starts counting
	Start()

	// Stop stops counting, the counter value is kept
	Stop()

	// Clear resets the counter to zero
	Clear()

	// SetPrescaler sets the clock divisor to 1<<prescaler
	SetPrescaler(prescaler uint8)

	// SetMode selects timer or counter mode
	SetMode(mode TimerMode)

	// SetBitMode sets the counter width
	SetBitMode(mode BitMode)

	// Capture latches the current counter into channel ch and returns it
	Capture(ch int) uint32

	// SetCompare programs the compare register of channel ch
	SetCompare(ch int, value uint32)

	// Compare returns the compare register of channel ch
	Compare(ch int) uint32

	// Event reports the compare event flag of channel ch
	Event(ch int) bool

	// ClearEvent clears the compare event flag of channel ch
	ClearEvent(ch int)

	// EnableInterrupt sets the compare interrupt enable of channel ch
	EnableInterrupt(ch int)

	// DisableInterrupt clears the compare interrupt enable of channel ch
	DisableInterrupt(ch int)
}

// ClockSource is the high frequency clock feeding the timers
type ClockSource interface {
	// Running reports whether the source is already running
	Running() bool

	// Start requests the source to start
	Start()

	// Started reports whether the start request completed
	Started() bool
}

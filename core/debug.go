package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a driver event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Timer     uint8  // Hardware timer id
	Clock     uint32 // Tick the event refers to
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtConfigure   = 1  // timer configured; v1=freq v2=prescaler
	EvtDeinit      = 2  // timer stopped
	EvtTimerStart  = 3  // scheduled timer queued; clock=expiry
	EvtTimerStop   = 4  // scheduled timer removed; clock=expiry
	EvtTimerFire   = 5  // callback run; clock=expiry v1=now
	EvtTimerLate   = 6  // deadline already passed, interrupt forced; v2=cntr
	EvtOverflow    = 7  // 16-bit wrap accounted; clock=cntr v1=overflows
	EvtArm         = 8  // deadline compare armed; v1=compare v2=cntr
	EvtArmDeferred = 9  // deadline is in a later 16-bit turn; v2=cntr
	EvtDisarm      = 10 // queue empty, deadline compare off
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// TimingRing keeps the last TimingRingSize driver events. Recording is
// non-blocking. One ring serves every timer, so writers must keep all timer
// lines masked; the driver does this in hwTimer.record.
type TimingRing struct {
	events [TimingRingSize]TimingEvent
	head   uint8
	total  uint32
}

// NewTimingRing returns an empty ring
func NewTimingRing() *TimingRing {
	return &TimingRing{}
}

// Record captures an event in the ring
func (r *TimingRing) Record(eventType, timer uint8, clock, value1, value2 uint32) {
	idx := r.head
	r.events[idx] = TimingEvent{
		EventType: eventType,
		Timer:     timer,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	r.head = (idx + 1) % TimingRingSize
	r.total++
}

// Total returns how many events were ever recorded, including overwritten ones
func (r *TimingRing) Total() uint32 {
	return r.total
}

// Snapshot returns the recorded events from oldest to newest
func (r *TimingRing) Snapshot() []TimingEvent {
	out := make([]TimingEvent, 0, TimingRingSize)
	start := r.head
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := r.events[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// Clear empties the ring. Total keeps counting.
func (r *TimingRing) Clear() {
	for i := range r.events {
		r.events[i] = TimingEvent{}
	}
	r.head = 0
}

// EventName returns a short name for an event type code
func EventName(eventType uint8) string {
	switch eventType {
	case EvtConfigure:
		return "CONFIGURE"
	case EvtDeinit:
		return "DEINIT"
	case EvtTimerStart:
		return "START"
	case EvtTimerStop:
		return "STOP"
	case EvtTimerFire:
		return "FIRE"
	case EvtTimerLate:
		return "LATE!"
	case EvtOverflow:
		return "OVERFLOW"
	case EvtArm:
		return "ARM"
	case EvtArmDeferred:
		return "ARM_DEFER"
	case EvtDisarm:
		return "DISARM"
	default:
		return "UNKNOWN"
	}
}

// Dump outputs the ring through the debug writer, oldest first
func (r *TimingRing) Dump() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	debugPrintln("[TIMING] Events recorded: " + utoa(r.total))
	for _, evt := range r.Snapshot() {
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" timer=" + itoa(int(evt.Timer)) +
			" clock=" + htoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

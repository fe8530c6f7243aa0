package tracer

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hwtimer/config"
	"hwtimer/core"
	"hwtimer/protocol"
)

func sampleEvents() []core.TimingEvent {
	return []core.TimingEvent{
		{EventType: core.EvtTimerStart, Timer: 0, Clock: 100},
		{EventType: core.EvtTimerFire, Timer: 0, Clock: 100, Value1: 104},
		{EventType: core.EvtTimerStart, Timer: 1, Clock: 0xfffffff0},
		{EventType: core.EvtOverflow, Timer: 1, Clock: 0, Value1: 1},
		{EventType: core.EvtTimerFire, Timer: 1, Clock: 0xfffffff0, Value1: 0x10},
		{EventType: core.EvtTimerFire, Timer: 0, Clock: 200, Value1: 201},
	}
}

func TestCaptureFeed(t *testing.T) {
	events := sampleEvents()

	output := protocol.NewScratchOutput()
	core.EncodeTimingEvents(protocol.NewTraceEncoder(output), events)
	stream := output.Result()

	c := NewCapture()
	// Split the stream mid-block
	c.Feed(stream[:3])
	c.Feed(stream[3:])

	if len(c.Events) != len(events) {
		t.Fatalf("Captured %d events, want %d", len(c.Events), len(events))
	}
	for i := range events {
		if c.Events[i] != events[i] {
			t.Errorf("Event %d = %+v, want %+v", i, c.Events[i], events[i])
		}
	}
	if frames, lost, errs := c.Stats(); frames == 0 || lost != 0 || errs != 0 {
		t.Errorf("Stats frames=%d lost=%d errors=%d", frames, lost, errs)
	}
}

func TestCaptureReadFrom(t *testing.T) {
	output := protocol.NewScratchOutput()
	core.EncodeTimingEvents(protocol.NewTraceEncoder(output), sampleEvents())

	c := NewCapture()
	if err := c.ReadFrom(bytes.NewReader(output.Result()), 0); err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if len(c.Events) != len(sampleEvents()) {
		t.Errorf("Captured %d events", len(c.Events))
	}
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(sampleEvents())
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 timers, got %d", len(summaries))
	}

	s0 := summaries[0]
	if s0.Timer != 0 || s0.Counts["FIRE"] != 2 || s0.Counts["START"] != 1 {
		t.Errorf("Timer 0 summary = %+v", s0)
	}
	if s0.Latest != 4 {
		t.Errorf("Timer 0 max latency = %d, want 4", s0.Latest)
	}

	// Latency is measured across the counter wrap
	if summaries[1].Latest != 0x20 {
		t.Errorf("Timer 1 max latency = %d, want 32", summaries[1].Latest)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleEvents())

	out := buf.String()
	if !strings.Contains(out, "timer 0: FIRE=2 START=1 max_latency=4") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "timer 1: FIRE=1 OVERFLOW=1 START=1") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
}

func TestUnwrap(t *testing.T) {
	placed := unwrap(sampleEvents(), 1)
	// start, overflow, fire and the span sentinel
	if len(placed) != 4 {
		t.Fatalf("Placed %d events, want 4", len(placed))
	}
	if placed[0].at != 0 || placed[1].at != 0x10 || placed[2].at != 0 {
		t.Errorf("Offsets = %d %d %d", placed[0].at, placed[1].at, placed[2].at)
	}
	if placed[3].at != 0x10 {
		t.Errorf("Span = %d, want 16", placed[3].at)
	}
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.png")
	if err := Render(path, sampleEvents()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if err := Render(path, nil); err == nil {
		t.Error("Render with no events should fail")
	}
}

func TestSimulate(t *testing.T) {
	cfg := config.DefaultNRF51Config()
	c := NewCapture()

	if err := Simulate(cfg, 50*time.Millisecond, c); err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	fired := make(map[uint8]int)
	for _, evt := range c.Events {
		if evt.EventType == core.EvtTimerFire {
			fired[evt.Timer]++
		}
	}
	// The fast demo runs at 80Hz on timer 0
	if fired[0] == 0 {
		t.Errorf("No fire events from timer 0 in %d events", len(c.Events))
	}
	if _, _, errs := c.Stats(); errs != 0 {
		t.Errorf("Decoder errors = %d", errs)
	}
}

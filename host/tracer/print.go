package tracer

import (
	"fmt"
	"io"
	"sort"

	"hwtimer/core"
)

// Print writes one line per event
func Print(w io.Writer, events []core.TimingEvent) {
	for _, evt := range events {
		fmt.Fprintf(w, "%-9s timer=%d clock=%10d v1=%d v2=%d\n",
			core.EventName(evt.EventType), evt.Timer, evt.Clock, evt.Value1, evt.Value2)
	}
}

// Summary counts events per timer and type
type Summary struct {
	Timer  uint8
	Counts map[string]int
	// Latest is the largest fire latency seen, in ticks
	Latest uint32
}

// Summarize groups events per timer
func Summarize(events []core.TimingEvent) []Summary {
	byTimer := make(map[uint8]*Summary)
	for _, evt := range events {
		s, ok := byTimer[evt.Timer]
		if !ok {
			s = &Summary{Timer: evt.Timer, Counts: make(map[string]int)}
			byTimer[evt.Timer] = s
		}
		s.Counts[core.EventName(evt.EventType)]++
		if evt.EventType == core.EvtTimerFire {
			if lat := evt.Value1 - evt.Clock; int32(lat) >= 0 && lat > s.Latest {
				s.Latest = lat
			}
		}
	}

	out := make([]Summary, 0, len(byTimer))
	for _, s := range byTimer {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timer < out[j].Timer })
	return out
}

// PrintSummary writes the output of Summarize
func PrintSummary(w io.Writer, events []core.TimingEvent) {
	for _, s := range Summarize(events) {
		names := make([]string, 0, len(s.Counts))
		for name := range s.Counts {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "timer %d:", s.Timer)
		for _, name := range names {
			fmt.Fprintf(w, " %s=%d", name, s.Counts[name])
		}
		fmt.Fprintf(w, " max_latency=%d\n", s.Latest)
	}
}

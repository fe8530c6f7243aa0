package tracer

import (
	"fmt"

	"github.com/fogleman/gg"

	"hwtimer/core"
)

// Image layout
const (
	imageWidth = 1200
	rowHeight  = 80
	marginLeft = 90
	marginTop  = 30
)

type mark struct {
	r, g, b float64
	height  float64
}

var marks = map[uint8]mark{
	core.EvtTimerStart: {0.2, 0.4, 0.9, 10},
	core.EvtTimerStop:  {0.6, 0.6, 0.6, 10},
	core.EvtTimerFire:  {0.1, 0.7, 0.2, 24},
	core.EvtTimerLate:  {0.9, 0.1, 0.1, 30},
	core.EvtOverflow:   {0.4, 0.4, 0.4, 36},
}

// Render draws one row per timer with a mark per event, placed by tick.
// Each row is scaled on its own since timers may run at different rates.
func Render(path string, events []core.TimingEvent) error {
	rows := rowsOf(events)
	if len(rows) == 0 {
		return fmt.Errorf("no events to render")
	}

	height := marginTop*2 + rowHeight*len(rows)
	dc := gg.NewContext(imageWidth, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, timer := range rows {
		y := float64(marginTop + rowHeight*i + rowHeight/2)
		ticks := unwrap(events, timer)
		span := ticks[len(ticks)-1].at
		if span == 0 {
			span = 1
		}

		dc.SetRGB(0, 0, 0)
		dc.DrawString(fmt.Sprintf("timer %d", timer), 10, y+4)
		dc.SetLineWidth(1)
		dc.DrawLine(marginLeft, y, imageWidth-20, y)
		dc.Stroke()

		plotWidth := float64(imageWidth - 20 - marginLeft)
		for _, p := range ticks {
			m, ok := marks[p.evt.EventType]
			if !ok {
				continue
			}
			x := marginLeft + plotWidth*float64(p.at)/float64(span)
			dc.SetRGB(m.r, m.g, m.b)
			dc.SetLineWidth(2)
			dc.DrawLine(x, y-m.height/2, x, y+m.height/2)
			dc.Stroke()
		}
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(fmt.Sprintf("%d ticks", span), imageWidth-20, y+rowHeight/2-8, 1, 0)
	}

	return dc.SavePNG(path)
}

type placed struct {
	evt core.TimingEvent
	at  int64
}

// rowsOf returns the timer ids present in events in ascending order
func rowsOf(events []core.TimingEvent) []uint8 {
	var seen [core.MaxTimers]bool
	for _, evt := range events {
		if int(evt.Timer) < len(seen) {
			seen[evt.Timer] = true
		}
	}
	var rows []uint8
	for i, ok := range seen {
		if ok {
			rows = append(rows, uint8(i))
		}
	}
	return rows
}

// unwrap places the events of one timer on a line starting at 0, following
// the tick counter across 32-bit wraps with signed differences
func unwrap(events []core.TimingEvent, timer uint8) []placed {
	var out []placed
	var prev uint32
	var at int64
	for _, evt := range events {
		if evt.Timer != timer || !hasClock(evt.EventType) {
			continue
		}
		if out == nil {
			prev = evt.Clock
		}
		at += int64(int32(evt.Clock - prev))
		prev = evt.Clock
		out = append(out, placed{evt: evt, at: at})
	}
	if len(out) == 0 {
		return []placed{{}}
	}

	lo := out[0].at
	for _, p := range out {
		if p.at < lo {
			lo = p.at
		}
	}
	hi := int64(0)
	for i := range out {
		out[i].at -= lo
		if out[i].at > hi {
			hi = out[i].at
		}
	}
	// keep the largest offset last so callers can read the span from it
	out = append(out, placed{at: hi})
	return out
}

func hasClock(eventType uint8) bool {
	switch eventType {
	case core.EvtTimerStart, core.EvtTimerStop, core.EvtTimerFire,
		core.EvtTimerLate, core.EvtOverflow, core.EvtArm:
		return true
	}
	return false
}

// Package tracer collects timer driver events from a target or a simulation
// and presents them
package tracer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"hwtimer/core"
	"hwtimer/protocol"
)

// Capture accumulates decoded events
type Capture struct {
	Events []core.TimingEvent

	fifo    *protocol.FifoBuffer
	decoder *protocol.TraceDecoder
}

// NewCapture creates an empty capture
func NewCapture() *Capture {
	c := &Capture{fifo: protocol.NewFifoBuffer(1024)}
	c.decoder = protocol.NewTraceDecoder(c.handleFrame)
	return c
}

func (c *Capture) handleFrame(seq uint8, frame []byte) error {
	events, err := core.DecodeTimingEvents(frame)
	c.Events = append(c.Events, events...)
	if err != nil {
		return fmt.Errorf("block %d: %w", seq, err)
	}
	return nil
}

// Feed decodes raw bytes received from the target
func (c *Capture) Feed(data []byte) {
	for len(data) > 0 {
		n := c.fifo.Write(data)
		data = data[n:]
		c.decoder.Receive(c.fifo)
		if n == 0 && c.fifo.Free() == 0 {
			// A full buffer without a block in it is garbage
			c.fifo.Reset()
		}
	}
}

// Add appends events that did not go through the wire format
func (c *Capture) Add(events []core.TimingEvent) {
	c.Events = append(c.Events, events...)
}

// Stats returns decoder counters: good blocks, lost blocks, bad blocks
func (c *Capture) Stats() (frames, lost, errs uint32) {
	return c.decoder.Frames, c.decoder.Lost, c.decoder.Errors
}

// ReadFrom reads from r for duration. With duration <= 0 it reads until EOF.
// Serial read timeouts surface as EOF, so a timed capture keeps reading.
func (c *Capture) ReadFrom(r io.Reader, duration time.Duration) error {
	deadline := time.Now().Add(duration)
	buf := make([]byte, 256)
	for duration <= 0 || time.Now().Before(deadline) {
		n, err := r.Read(buf)
		if n > 0 {
			c.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			if duration <= 0 {
				return nil
			}
			continue
		}
		if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("read trace: %w", err)
		}
	}
	return nil
}

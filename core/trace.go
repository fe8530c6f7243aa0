package core

import "hwtimer/protocol"

// EncodeTimingEvents packs events into as many trace blocks as needed
func EncodeTimingEvents(enc *protocol.TraceEncoder, events []TimingEvent) {
	for len(events) > 0 {
		n := 0
		enc.EncodeFrame(func(output protocol.OutputBuffer) {
			size := 0
			for n < len(events) {
				evt := events[n]
				need := 2 +
					protocol.VLQSize(int32(evt.Clock)) +
					protocol.VLQSize(int32(evt.Value1)) +
					protocol.VLQSize(int32(evt.Value2))
				if size+need > protocol.MessagePayloadMax {
					break
				}
				protocol.EncodeVLQUint(output, uint32(evt.EventType))
				protocol.EncodeVLQUint(output, uint32(evt.Timer))
				protocol.EncodeVLQUint(output, evt.Clock)
				protocol.EncodeVLQUint(output, evt.Value1)
				protocol.EncodeVLQUint(output, evt.Value2)
				size += need
				n++
			}
		})
		events = events[n:]
	}
}

// DecodeTimingEvents unpacks the payload of one trace block
func DecodeTimingEvents(frame []byte) ([]TimingEvent, error) {
	var out []TimingEvent
	for len(frame) > 0 {
		var fields [5]uint32
		for i := range fields {
			v, err := protocol.DecodeVLQUint(&frame)
			if err != nil {
				return out, err
			}
			fields[i] = v
		}
		if fields[0] == 0 || fields[0] > 0xff || fields[1] >= MaxTimers {
			return out, protocol.ErrInvalidVLQ
		}
		out = append(out, TimingEvent{
			EventType: uint8(fields[0]),
			Timer:     uint8(fields[1]),
			Clock:     fields[2],
			Value1:    fields[3],
			Value2:    fields[4],
		})
	}
	return out, nil
}

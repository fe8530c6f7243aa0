package protocol

// TraceEncoder frames outgoing trace blocks. Every block carries the next
// sequence number so the host can count lost blocks.
type TraceEncoder struct {
	output OutputBuffer
	seq    uint8
}

// NewTraceEncoder creates an encoder writing to output
func NewTraceEncoder(output OutputBuffer) *TraceEncoder {
	return &TraceEncoder{output: output}
}

// EncodeFrame writes one block whose payload is produced by frameData.
// frameData must not write more than MessagePayloadMax bytes.
func (e *TraceEncoder) EncodeFrame(frameData func(output OutputBuffer)) {
	cursor := e.output.CurPosition()

	e.output.Output([]byte{0, MessageDest | e.seq})
	frameData(e.output)

	changed := len(e.output.DataSince(cursor))
	e.output.Update(cursor, uint8(changed+MessageTrailerSize))

	crc := CRC16(e.output.DataSince(cursor))
	e.output.Output([]byte{
		uint8(crc >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	e.seq = (e.seq + 1) & MessageSeqMask
}

// Reset restarts the sequence at zero
func (e *TraceEncoder) Reset() {
	e.seq = 0
}

// FrameHandler receives the payload of each valid block
type FrameHandler func(seq uint8, frame []byte) error

// TraceDecoder splits a byte stream into blocks, verifying length, sequence
// marker, sync byte and CRC. Garbage is skipped up to the next sync byte.
type TraceDecoder struct {
	synchronized bool
	started      bool
	nextSeq      uint8
	handler      FrameHandler

	// Frames counts valid blocks, Lost counts blocks missing from the
	// sequence, Errors counts blocks dropped by validation or the handler
	Frames uint32
	Lost   uint32
	Errors uint32
}

// NewTraceDecoder creates a decoder calling handler for each block
func NewTraceDecoder(handler FrameHandler) *TraceDecoder {
	return &TraceDecoder{
		synchronized: true,
		handler:      handler,
	}
}

// Receive consumes every complete block in input and leaves a trailing
// partial block buffered
func (d *TraceDecoder) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !d.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.synchronized = true
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		frame := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		seq &= MessageSeqMask
		if d.started && seq != d.nextSeq {
			d.Lost += uint32((seq - d.nextSeq) & MessageSeqMask)
		}
		d.started = true
		d.nextSeq = (seq + 1) & MessageSeqMask
		d.Frames++

		if d.handler != nil {
			if err := d.handler(seq, frame); err != nil {
				d.Errors++
			}
		}
	}

	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *TraceDecoder) desync() {
	d.synchronized = false
	d.Errors++
}

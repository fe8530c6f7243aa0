package protocol

import (
	"bytes"
	"errors"
	"testing"
)

type received struct {
	seq   uint8
	frame []byte
}

func collect(out *[]received) FrameHandler {
	return func(seq uint8, frame []byte) error {
		*out = append(*out, received{seq, append([]byte(nil), frame...)})
		return nil
	}
}

func encodeFrames(enc *TraceEncoder, payloads ...[]byte) []byte {
	output := NewScratchOutput()
	enc.output = output
	for _, p := range payloads {
		p := p
		enc.EncodeFrame(func(o OutputBuffer) { o.Output(p) })
	}
	return append([]byte(nil), output.Result()...)
}

func TestTraceEncodeFrame(t *testing.T) {
	output := NewScratchOutput()
	enc := NewTraceEncoder(output)
	enc.EncodeFrame(func(o OutputBuffer) {
		o.Output([]byte{0xAA, 0xBB})
	})

	frame := output.Result()
	if len(frame) != 7 {
		t.Fatalf("Expected 7 byte block, got %d: %v", len(frame), frame)
	}
	if frame[MessagePositionLen] != 7 {
		t.Errorf("Length byte = %d, want 7", frame[MessagePositionLen])
	}
	if frame[MessagePositionSeq] != MessageDest {
		t.Errorf("Seq byte = %#x, want %#x", frame[MessagePositionSeq], MessageDest)
	}
	if frame[6] != MessageValueSync {
		t.Errorf("Last byte = %#x, want sync", frame[6])
	}
	crc := CRC16(frame[:4])
	if frame[4] != uint8(crc>>8) || frame[5] != uint8(crc) {
		t.Errorf("Trailer CRC mismatch")
	}
}

func TestTraceRoundTrip(t *testing.T) {
	enc := NewTraceEncoder(nil)
	stream := encodeFrames(enc, []byte{1}, []byte{2, 3}, []byte{})

	var got []received
	dec := NewTraceDecoder(collect(&got))
	dec.Receive(NewSliceInputBuffer(stream))

	if len(got) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(got))
	}
	for i, r := range got {
		if r.seq != uint8(i) {
			t.Errorf("Block %d has seq %d", i, r.seq)
		}
	}
	if !bytes.Equal(got[1].frame, []byte{2, 3}) {
		t.Errorf("Block 1 payload = %v", got[1].frame)
	}
	if dec.Frames != 3 || dec.Lost != 0 || dec.Errors != 0 {
		t.Errorf("Stats frames=%d lost=%d errors=%d", dec.Frames, dec.Lost, dec.Errors)
	}
}

func TestTraceSequenceWraps(t *testing.T) {
	enc := NewTraceEncoder(nil)
	payloads := make([][]byte, 20)
	for i := range payloads {
		payloads[i] = []byte{byte(i)}
	}
	stream := encodeFrames(enc, payloads...)

	var got []received
	dec := NewTraceDecoder(collect(&got))
	dec.Receive(NewSliceInputBuffer(stream))

	if len(got) != 20 {
		t.Fatalf("Expected 20 blocks, got %d", len(got))
	}
	if got[16].seq != 0 {
		t.Errorf("Block 16 has seq %d, want 0", got[16].seq)
	}
	if dec.Lost != 0 {
		t.Errorf("Lost = %d across sequence wrap", dec.Lost)
	}
}

func TestTraceLostBlocks(t *testing.T) {
	enc := NewTraceEncoder(nil)
	first := encodeFrames(enc, []byte{1})
	encodeFrames(enc, []byte{2}, []byte{3})
	last := encodeFrames(enc, []byte{4})

	var got []received
	dec := NewTraceDecoder(collect(&got))
	dec.Receive(NewSliceInputBuffer(append(first, last...)))

	if len(got) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(got))
	}
	if dec.Lost != 2 {
		t.Errorf("Lost = %d, want 2", dec.Lost)
	}
}

func TestTraceResync(t *testing.T) {
	enc := NewTraceEncoder(nil)
	good := encodeFrames(enc, []byte{1, 2}, []byte{3})

	// Corrupt the CRC of the first block
	bad := append([]byte(nil), good...)
	bad[3] ^= 0xFF

	stream := append([]byte{0x42, 0x13}, bad...)

	var got []received
	dec := NewTraceDecoder(collect(&got))
	dec.Receive(NewSliceInputBuffer(stream))

	if len(got) != 1 {
		t.Fatalf("Expected 1 block after resync, got %d", len(got))
	}
	if !bytes.Equal(got[0].frame, []byte{3}) {
		t.Errorf("Recovered payload = %v", got[0].frame)
	}
	if dec.Errors == 0 {
		t.Error("Expected validation errors to be counted")
	}
}

func TestTracePartialBlock(t *testing.T) {
	enc := NewTraceEncoder(nil)
	stream := encodeFrames(enc, []byte{5, 6, 7})

	var got []received
	dec := NewTraceDecoder(collect(&got))
	fifo := NewFifoBuffer(64)

	fifo.Write(stream[:4])
	dec.Receive(fifo)
	if len(got) != 0 {
		t.Fatalf("Decoded a block from a partial read")
	}
	if fifo.Available() != 4 {
		t.Errorf("Partial block not kept buffered, %d bytes left", fifo.Available())
	}

	fifo.Write(stream[4:])
	dec.Receive(fifo)
	if len(got) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(got))
	}
	if fifo.Available() != 0 {
		t.Errorf("Expected empty buffer, %d bytes left", fifo.Available())
	}
}

func TestTraceHandlerError(t *testing.T) {
	enc := NewTraceEncoder(nil)
	stream := encodeFrames(enc, []byte{1})

	dec := NewTraceDecoder(func(uint8, []byte) error {
		return errors.New("rejected")
	})
	dec.Receive(NewSliceInputBuffer(stream))

	if dec.Frames != 1 || dec.Errors != 1 {
		t.Errorf("frames=%d errors=%d, want 1 and 1", dec.Frames, dec.Errors)
	}
}

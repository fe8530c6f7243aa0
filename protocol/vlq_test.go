package protocol

import (
	"testing"
)

func TestVLQEncodeDecodeInt(t *testing.T) {
	testCases := []int32{
		0,
		1,
		-1,
		127,
		-127,
		128,
		-128,
		255,
		-255,
		1000,
		-1000,
		65535,
		-65535,
		1000000,
		-1000000,
	}

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, expected)
		encoded := output.Result()

		data := encoded
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("Failed to decode VLQ for value %d: %v", expected, err)
			continue
		}

		if decoded != expected {
			t.Errorf("VLQ mismatch: expected %d, got %d (encoded as %v)", expected, decoded, encoded)
		}

		if len(data) != 0 {
			t.Errorf("VLQ decode didn't consume all bytes for value %d: %d bytes remaining", expected, len(data))
		}
	}
}

func TestVLQEncodeDecodeUint(t *testing.T) {
	testCases := []uint32{
		0,
		1,
		127,
		128,
		255,
		1000,
		65535,
		1000000,
		0x80000000,
		0xfffffff0,
		0xffffffff,
	}

	for _, expected := range testCases {
		output := NewScratchOutput()
		EncodeVLQUint(output, expected)
		encoded := output.Result()

		data := encoded
		decoded, err := DecodeVLQUint(&data)
		if err != nil {
			t.Errorf("Failed to decode VLQ for value %d: %v", expected, err)
			continue
		}

		if decoded != expected {
			t.Errorf("VLQ mismatch: expected %d, got %d (encoded as %v)", expected, decoded, encoded)
		}
	}
}

func TestVLQBufferTooSmall(t *testing.T) {
	// Test decoding with insufficient data
	data := []byte{0x80} // Continuation byte but no following byte
	_, err := DecodeVLQInt(&data)
	if err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}
}

func TestVLQTooLong(t *testing.T) {
	data := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}
	_, err := DecodeVLQInt(&data)
	if err != ErrInvalidVLQ {
		t.Errorf("Expected ErrInvalidVLQ, got %v", err)
	}
}

func TestVLQSize(t *testing.T) {
	testCases := []int32{
		0, 1, -1, 95, 96, -32, -33, 4000, -5000,
		1 << 20, -(1 << 20), 1 << 27, -(1 << 27),
		0x7fffffff, -0x80000000,
	}

	for _, v := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, v)
		if got := VLQSize(v); got != len(output.Result()) {
			t.Errorf("VLQSize(%d) = %d, encoder wrote %d bytes", v, got, len(output.Result()))
		}
	}
}

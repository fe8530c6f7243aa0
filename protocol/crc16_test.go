package protocol

import "testing"

func TestCRC16(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint16
	}{
		{
			data:     []byte{5, MessageDest},
			expected: 0x9E81,
		},
		{
			data:     []byte{},
			expected: 0xFFFF,
		},
		{
			data:     []byte{0x00},
			expected: 0x0F87,
		},
		{
			data:     []byte{0xFF},
			expected: 0x00FF,
		},
		{
			// CRC-16/MCRF4XX check value
			data:     []byte("123456789"),
			expected: 0x6F91,
		},
	}

	for i, tc := range testCases {
		result := CRC16(tc.data)
		if result != tc.expected {
			t.Errorf("Test case %d: CRC16(%v) = 0x%04X, want 0x%04X", i, tc.data, result, tc.expected)
		}
	}
}

func TestCRC16Consistency(t *testing.T) {
	// Test that same input produces same output
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	crc1 := CRC16(data)
	crc2 := CRC16(data)

	if crc1 != crc2 {
		t.Errorf("CRC16 not consistent: first=%04X, second=%04X", crc1, crc2)
	}
}

func TestCRC16Different(t *testing.T) {
	// Test that different inputs produce different outputs
	data1 := []byte{0x01, 0x02, 0x03}
	data2 := []byte{0x01, 0x02, 0x04}

	crc1 := CRC16(data1)
	crc2 := CRC16(data2)

	if crc1 == crc2 {
		t.Errorf("CRC16 collision: both inputs produced %04X", crc1)
	}
}

func TestCRC16Update(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}

	whole := CRC16(data)
	split := CRC16Update(CRC16(data[:2]), data[2:])
	if whole != split {
		t.Errorf("Incremental CRC mismatch: whole=%04X split=%04X", whole, split)
	}
}

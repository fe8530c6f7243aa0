package core

import "testing"

func TestPrescalerFor(t *testing.T) {
	const maxFreq = 16000000

	tests := []struct {
		freq      uint32
		prescaler uint8
	}{
		{16000000, 0},
		{8000000, 1},
		{5333333, 1}, // ratio 3 sits halfway between 2 and 4
		{3200000, 2}, // ratio 5
		{2285714, 3}, // ratio 7
		{1333333, 3}, // ratio 12 sits halfway between 8 and 16
		{1000000, 4},
		{62500, 8},
		{31250, 9},
	}

	for _, tt := range tests {
		got, err := prescalerFor(maxFreq, tt.freq)
		if err != nil {
			t.Errorf("prescalerFor(%d) failed: %v", tt.freq, err)
			continue
		}
		if got != tt.prescaler {
			t.Errorf("prescalerFor(%d) = %d, want %d", tt.freq, got, tt.prescaler)
		}
	}
}

func TestPrescalerForOutOfRange(t *testing.T) {
	const maxFreq = 16000000

	for _, freq := range []uint32{0, 16000001, 32000000, 30000, 1} {
		if _, err := prescalerFor(maxFreq, freq); err != ErrInvalidArgument {
			t.Errorf("prescalerFor(%d) error = %v, want ErrInvalidArgument", freq, err)
		}
	}
}

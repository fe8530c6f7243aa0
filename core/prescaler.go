package core

// MaxPrescaler is the largest prescaler exponent; the divisor is 1<<prescaler
const MaxPrescaler = 9

// prescalerFor picks the power of two divisor of maxFreq closest to the
// requested frequency. When the ratio falls between two divisors the one with
// the smaller deviation wins, ties going to the smaller divisor.
func prescalerFor(maxFreq, freqHz uint32) (uint8, error) {
	if freqHz == 0 {
		return 0, ErrInvalidArgument
	}
	div := maxFreq / freqHz
	if div == 0 || div > 1<<MaxPrescaler {
		return 0, ErrInvalidArgument
	}
	if div == 1 {
		return 0, nil
	}

	var prescaler uint8
	for prescaler = 1; prescaler <= MaxPrescaler; prescaler++ {
		if div <= 1<<prescaler {
			lower := div - 1<<(prescaler-1)
			upper := 1<<prescaler - div
			if lower <= upper {
				prescaler--
			}
			break
		}
	}
	return prescaler, nil
}

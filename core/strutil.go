package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	if n == 0 {
		return "0"
	}

	var buf [10]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

// htoa formats n as 0x-prefixed, zero padded hex
func htoa(n uint32) string {
	const digits = "0123456789abcdef"
	var buf [10]byte
	buf[0] = '0'
	buf[1] = 'x'
	for i := 9; i >= 2; i-- {
		buf[i] = digits[n&0xf]
		n >>= 4
	}
	return string(buf[:])
}

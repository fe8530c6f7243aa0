// Package serial opens the port a target streams its timer trace on
package serial

import (
	"io"
)

// Port is a serial connection to the target
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate of the target UART
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the nRF51 firmware UART setting
const DefaultBaud = 115200

// DefaultConfig returns the configuration used by the trace firmware
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}

//go:build nrf51

package main

import (
	"machine"

	"hwtimer/core"
)

// The nRF51 has a single UART, shared by trace blocks and debug text. The
// host decoder skips text between blocks, so debug output stays off unless
// someone is watching the raw line.
const debugText = false

var uart = machine.DefaultUART

// initUART brings up the UART at the baud rate the host tool expects
func initUART() {
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	core.SetDebugWriter(debugPrintln)
	core.SetDebugEnabled(debugText)
	core.DebugPrintln("=== nRF51 timer trace ===")
}

// debugPrintln writes a line of debug text to the UART
func debugPrintln(s string) {
	uart.Write([]byte(s))
	uart.Write([]byte("\r\n"))
}

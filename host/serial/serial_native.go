//go:build !wasm

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a native serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", cfg.Baud)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

// Flush discards unread input so a capture starts on fresh data.
// tarm/serial has no input flush, so reads are drained until one times out.
func (p *NativePort) Flush() error {
	if p.port == nil {
		return fmt.Errorf("port %s is closed", p.cfg.Device)
	}
	if p.cfg.ReadTimeout == 0 {
		// A blocking read would never return on an idle line
		return nil
	}
	buf := make([]byte, 256)
	for i := 0; i < maxFlushReads; i++ {
		n, err := p.port.Read(buf)
		if n == 0 || err != nil {
			return nil
		}
	}
	return nil
}

// maxFlushReads bounds Flush on a target that never stops sending
const maxFlushReads = 64

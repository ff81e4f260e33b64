// Package bridge provides a host-side SPI transport for the driver: a serial
// port abstraction and an adapter for Bus Pirate style USB-serial probes that
// expose an SPI master over their binary mode. It lets the register layer run
// unchanged on a PC for bring-up and diagnostics.
package bridge

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// Port is the serial link to the probe. The interface exists so tests can
// substitute a scripted fake for the real device.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error

	// Flush discards buffered input so a command/reply exchange starts clean.
	Flush() error
}

// Config holds serial port parameters.
type Config struct {
	// Device path, e.g. "/dev/ttyUSB0" or "COM4".
	Device string

	// Baud rate. Bus Pirate binary mode runs at 115200.
	Baud int

	// ReadTimeout bounds a single read. Zero blocks indefinitely.
	ReadTimeout time.Duration
}

// DefaultConfig returns the standard Bus Pirate settings for device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

type nativePort struct {
	port *serial.Port
}

// Open opens the serial device described by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bridge: config cannot be nil")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("bridge: open %s: %w", cfg.Device, err)
	}
	return &nativePort{port: port}, nil
}

func (p *nativePort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *nativePort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *nativePort) Close() error                { return p.port.Close() }
func (p *nativePort) Flush() error                { return p.port.Flush() }

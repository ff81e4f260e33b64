// Package hal declares the hardware capabilities the driver consumes beyond
// the SPI bus: fallible digital output lines and a blocking delay source.
// Platform code supplies the implementations; the driver never touches
// hardware registers of the host itself.
package hal

import "time"

// OutputPin is a single digital output line. Implementations report failures
// from the underlying GPIO hardware; the driver aborts the operation in
// progress on the first pin error.
type OutputPin interface {
	// High drives the line to its high level.
	High() error

	// Low drives the line to its low level.
	Low() error
}

// Set drives the pin high or low according to value.
func Set(pin OutputPin, value bool) error {
	if value {
		return pin.High()
	}
	return pin.Low()
}

// Delay blocks the calling goroutine for at least the requested duration.
type Delay interface {
	DelayNs(ns uint32)
}

// SleepDelay implements Delay with time.Sleep. Suitable for host-side use;
// MCU targets typically substitute a busy-wait tied to the system timer.
type SleepDelay struct{}

func (SleepDelay) DelayNs(ns uint32) {
	time.Sleep(time.Duration(ns) * time.Nanosecond)
}

// Unconnected is an OutputPin for lines a deployment does not wire, such as
// STEP/DIR on a diagnostics-only bench setup. Every transition succeeds.
type Unconnected struct{}

func (Unconnected) High() error { return nil }
func (Unconnected) Low() error  { return nil }

package tmc2160

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a caller-supplied value is outside
	// the range the chip accepts. Validation always happens before any bus
	// traffic, so a rejected call causes zero transactions.
	ErrInvalidArgument = errors.New("tmc2160: argument out of range")

	// ErrNotInitialized is reserved for callers that want to gate operations
	// on Init having run. No driver operation currently returns it.
	ErrNotInitialized = errors.New("tmc2160: driver not initialized")
)

// BusError reports a failure of the SPI bus primitive during a register
// transaction. The transaction is aborted and never retried.
type BusError struct {
	Op  string // transaction description, e.g. "read CHOPCONF"
	Err error  // underlying bus failure
}

func (e *BusError) Error() string {
	return fmt.Sprintf("tmc2160: bus %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// PinError reports a failure while driving one of the digital output lines.
type PinError struct {
	Pin string // line name: "cs", "en", "dir" or "step"
	Err error  // underlying GPIO failure
}

func (e *PinError) Error() string {
	return fmt.Sprintf("tmc2160: pin %s: %v", e.Pin, e.Err)
}

func (e *PinError) Unwrap() error { return e.Err }

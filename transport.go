package tmc2160

import (
	"encoding/binary"
	"errors"

	"github.com/guptaarnav/tmc2160-driver/registers"
)

// Every register access is one 40-bit SPI transaction: an address byte with
// the direction in bit 7, then the 32-bit value most significant byte first.
// For reads the four request data bytes are placeholders and the response
// carries the value; response byte 0 is the chip's status byte, which this
// driver does not interpret.
const frameLen = 5

// ReadRegister performs a read transaction and returns the register value.
func (d *Device) ReadRegister(reg registers.Register) (uint32, error) {
	var tx, rx [frameLen]byte
	tx[0] = uint8(reg) &^ registers.WriteFlag

	if err := d.cs.Low(); err != nil {
		return 0, &PinError{Pin: "cs", Err: err}
	}
	if err := d.bus.Tx(tx[:], rx[:]); err != nil {
		return 0, d.abortTransaction(&BusError{Op: "read " + reg.String(), Err: err})
	}
	if err := d.cs.High(); err != nil {
		return 0, &PinError{Pin: "cs", Err: err}
	}
	return binary.BigEndian.Uint32(rx[1:]), nil
}

// WriteRegister performs a write transaction. On success the shadow cache is
// updated before returning, for registers in the write-only set.
func (d *Device) WriteRegister(reg registers.Register, value uint32) error {
	var tx [frameLen]byte
	tx[0] = uint8(reg) | registers.WriteFlag
	binary.BigEndian.PutUint32(tx[1:], value)

	if err := d.cs.Low(); err != nil {
		return &PinError{Pin: "cs", Err: err}
	}
	if err := d.bus.Tx(tx[:], nil); err != nil {
		return d.abortTransaction(&BusError{Op: "write " + reg.String(), Err: err})
	}
	if err := d.cs.High(); err != nil {
		return &PinError{Pin: "cs", Err: err}
	}
	d.cache.Put(reg, value)
	return nil
}

// ModifyRegister applies f to the current value of reg and writes the result.
// For registers in the write-only set the current value comes from the shadow
// cache; a hardware read of those would return stale data. All others are
// read from the chip.
func (d *Device) ModifyRegister(reg registers.Register, f func(uint32) uint32) error {
	current, cached := d.cache.Get(reg)
	if !cached {
		var err error
		current, err = d.ReadRegister(reg)
		if err != nil {
			return err
		}
	}
	return d.WriteRegister(reg, f(current))
}

// abortTransaction releases chip-select after a failed transfer so the bus is
// not left framed. If the release fails as well, both failures are returned.
func (d *Device) abortTransaction(busErr *BusError) error {
	if err := d.cs.High(); err != nil {
		return errors.Join(busErr, &PinError{Pin: "cs", Err: err})
	}
	return busErr
}

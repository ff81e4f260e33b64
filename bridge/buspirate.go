package bridge

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/guptaarnav/tmc2160-driver/hal"
)

// Bus Pirate binary-mode command bytes.
const (
	cmdResetBinary = 0x00 // enter/confirm binary bit-bang mode ("BBIO1")
	cmdEnterSPI    = 0x01 // enter raw SPI mode ("SPI1")
	cmdCSLow       = 0x02
	cmdCSHigh      = 0x03
	cmdResetPirate = 0x0F // leave binary mode, reboot to the terminal
	cmdBulkBase    = 0x10 // 0x10|(n-1): bulk transfer of n bytes, n <= 16
	cmdPeriphBase  = 0x40 // 0x40|wxyz: power, pull-ups, AUX, CS
	cmdSpeedBase   = 0x60 // 0x60|speed
	cmdConfigBase  = 0x80 // 0x80|wxyz: output level, clock idle, edge, sample
)

// Peripheral bits for cmdPeriphBase.
const (
	periphPower   = 1 << 3
	periphPullups = 1 << 2
	periphAux     = 1 << 1
	periphCS      = 1 << 0
)

// SPI speed codes for cmdSpeedBase.
const (
	Speed30kHz = iota
	Speed125kHz
	Speed250kHz
	Speed1MHz
	Speed2MHz
	Speed2600kHz
	Speed4MHz
	Speed8MHz
)

// spiConfigMode3 selects 3.3V push-pull output, clock idle high and data
// sampled on the trailing edge: SPI mode 3, which the TMC2160 requires.
const spiConfigMode3 = 0x0C

const bulkMax = 16

// maxReadAttempts bounds reply reads so a silent probe fails instead of
// hanging forever on a port with a read timeout.
const maxReadAttempts = 50

var errNak = errors.New("bridge: probe rejected command")

// BusPirate is an SPI master behind a Bus Pirate compatible probe. It
// implements drivers.SPI; chip-select and the AUX line are exposed as
// hal.OutputPin so the driver can frame transactions itself.
//
// Like the driver, the adapter is single-owner: command/reply exchanges on
// the serial link must not be interleaved by concurrent callers.
type BusPirate struct {
	port    Port
	periphs byte // last written cmdPeriphBase bits
}

// NewBusPirate switches the probe into raw SPI mode and applies the bus
// settings the TMC2160 expects (mode 3, 1 MHz).
func NewBusPirate(port Port) (*BusPirate, error) {
	b := &BusPirate{port: port}
	if err := b.enterBinaryMode(); err != nil {
		return nil, err
	}
	if err := b.enterSPIMode(); err != nil {
		return nil, err
	}
	if err := b.command(cmdSpeedBase | Speed1MHz); err != nil {
		return nil, fmt.Errorf("bridge: set speed: %w", err)
	}
	if err := b.command(cmdConfigBase | spiConfigMode3); err != nil {
		return nil, fmt.Errorf("bridge: configure spi: %w", err)
	}
	if err := b.command(cmdCSHigh); err != nil {
		return nil, fmt.Errorf("bridge: release chip-select: %w", err)
	}
	return b, nil
}

// Tx performs a full-duplex transfer of w. With r nil the received bytes are
// discarded (write-only transfer); otherwise r must match w in length.
// Chip-select is not touched here, callers frame the transaction through CS.
func (b *BusPirate) Tx(w, r []byte) error {
	if r != nil && len(r) != len(w) {
		return fmt.Errorf("bridge: rx length %d != tx length %d", len(r), len(w))
	}
	for len(w) > 0 {
		n := len(w)
		if n > bulkMax {
			n = bulkMax
		}
		if err := b.command(cmdBulkBase | byte(n-1)); err != nil {
			return fmt.Errorf("bridge: bulk transfer: %w", err)
		}
		if _, err := b.port.Write(w[:n]); err != nil {
			return fmt.Errorf("bridge: bulk transfer: %w", err)
		}
		buf := make([]byte, n)
		if err := b.readFull(buf); err != nil {
			return fmt.Errorf("bridge: bulk transfer: %w", err)
		}
		if r != nil {
			copy(r[:n], buf)
			r = r[n:]
		}
		w = w[n:]
	}
	return nil
}

// Transfer exchanges a single byte.
func (b *BusPirate) Transfer(c byte) (byte, error) {
	var rx [1]byte
	if err := b.Tx([]byte{c}, rx[:]); err != nil {
		return 0, err
	}
	return rx[0], nil
}

// CS returns the probe's chip-select line.
func (b *BusPirate) CS() hal.OutputPin { return csPin{b} }

// Aux returns the probe's AUX line, usable as one general-purpose output
// (the driver-enable line on a typical bench hookup).
func (b *BusPirate) Aux() hal.OutputPin { return auxPin{b} }

// SetPower switches the probe's onboard supply outputs.
func (b *BusPirate) SetPower(on bool) error {
	return b.setPeriph(periphPower, on)
}

// Close returns the probe to its terminal interface and closes the port.
func (b *BusPirate) Close() error {
	// Best effort: leave SPI mode, then reset out of binary mode.
	_, _ = b.port.Write([]byte{cmdResetBinary})
	_, _ = b.port.Write([]byte{cmdResetPirate})
	return b.port.Close()
}

type csPin struct{ b *BusPirate }

func (p csPin) High() error { return p.b.command(cmdCSHigh) }
func (p csPin) Low() error  { return p.b.command(cmdCSLow) }

type auxPin struct{ b *BusPirate }

func (p auxPin) High() error { return p.b.setPeriph(periphAux, true) }
func (p auxPin) Low() error  { return p.b.setPeriph(periphAux, false) }

func (b *BusPirate) setPeriph(bit byte, on bool) error {
	next := b.periphs
	if on {
		next |= bit
	} else {
		next &^= bit
	}
	if err := b.command(cmdPeriphBase | next); err != nil {
		return err
	}
	b.periphs = next
	return nil
}

// command sends a single command byte and checks the 0x01 acknowledgement.
func (b *BusPirate) command(cmd byte) error {
	if _, err := b.port.Write([]byte{cmd}); err != nil {
		return err
	}
	var ack [1]byte
	if err := b.readFull(ack[:]); err != nil {
		return err
	}
	if ack[0] != 0x01 {
		return fmt.Errorf("%w: command %#02x, reply %#02x", errNak, cmd, ack[0])
	}
	return nil
}

// enterBinaryMode sends reset bytes until the probe answers "BBIO1". The
// protocol requires up to 20 attempts to flush a partially entered command.
func (b *BusPirate) enterBinaryMode() error {
	if err := b.port.Flush(); err != nil {
		return fmt.Errorf("bridge: flush: %w", err)
	}
	var seen []byte
	for attempt := 0; attempt < 20; attempt++ {
		if _, err := b.port.Write([]byte{cmdResetBinary}); err != nil {
			return fmt.Errorf("bridge: enter binary mode: %w", err)
		}
		buf := make([]byte, 5)
		n, err := b.port.Read(buf)
		if err != nil {
			return fmt.Errorf("bridge: enter binary mode: %w", err)
		}
		seen = append(seen, buf[:n]...)
		if bytes.Contains(seen, []byte("BBIO1")) {
			return nil
		}
	}
	return errors.New("bridge: probe did not enter binary mode")
}

func (b *BusPirate) enterSPIMode() error {
	if _, err := b.port.Write([]byte{cmdEnterSPI}); err != nil {
		return fmt.Errorf("bridge: enter spi mode: %w", err)
	}
	buf := make([]byte, 4)
	if err := b.readFull(buf); err != nil {
		return fmt.Errorf("bridge: enter spi mode: %w", err)
	}
	if !bytes.Equal(buf, []byte("SPI1")) {
		return fmt.Errorf("bridge: unexpected spi mode banner %q", buf)
	}
	return nil
}

// readFull fills buf, tolerating the short reads a timeout-bounded serial
// port produces, and gives up after maxReadAttempts empty reads.
func (b *BusPirate) readFull(buf []byte) error {
	filled := 0
	for attempts := 0; filled < len(buf); attempts++ {
		if attempts >= maxReadAttempts {
			return errors.New("bridge: timeout waiting for reply")
		}
		n, err := b.port.Read(buf[filled:])
		if err != nil {
			return err
		}
		filled += n
	}
	return nil
}

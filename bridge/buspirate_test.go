package bridge

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"gotest.tools/v3/assert"
)

// fakePort feeds a pre-scripted reply stream and records everything written.
type fakePort struct {
	written bytes.Buffer
	replies bytes.Buffer
	closed  bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.replies.Len() == 0 {
		return 0, io.EOF
	}
	return p.replies.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *fakePort) Close() error { p.closed = true; return nil }
func (p *fakePort) Flush() error { return nil }

// setupReplies is the reply stream NewBusPirate consumes: the binary-mode
// banner, the SPI banner, and acks for speed, config and chip-select release.
const setupReplies = "BBIO1SPI1\x01\x01\x01"

func newFakePirate(t *testing.T, extraReplies []byte) (*BusPirate, *fakePort) {
	t.Helper()
	port := &fakePort{}
	port.replies.WriteString(setupReplies)
	port.replies.Write(extraReplies)
	bp, err := NewBusPirate(port)
	assert.NilError(t, err)
	port.written.Reset()
	return bp, port
}

func TestNewBusPirateHandshake(t *testing.T) {
	port := &fakePort{}
	port.replies.WriteString(setupReplies)

	_, err := NewBusPirate(port)
	assert.NilError(t, err)

	// Reset into binary mode, raw SPI, 1 MHz, mode 3 config, CS release.
	expected := []byte{0x00, 0x01, 0x60 | Speed1MHz, 0x80 | spiConfigMode3, 0x03}
	assert.DeepEqual(t, port.written.Bytes(), expected)
}

func TestNewBusPirateNoBanner(t *testing.T) {
	port := &fakePort{}
	port.replies.WriteString("garbage")

	_, err := NewBusPirate(port)
	assert.ErrorContains(t, err, "binary mode")
}

func TestTxFullDuplex(t *testing.T) {
	// Ack for the bulk command, then one reply byte per transmitted byte.
	bp, port := newFakePirate(t, []byte{0x01, 0xF0, 0x11, 0x22, 0x33, 0x44})

	tx := []byte{0x6C, 0, 0, 0, 0}
	rx := make([]byte, 5)
	assert.NilError(t, bp.Tx(tx, rx))

	assert.DeepEqual(t, rx, []byte{0xF0, 0x11, 0x22, 0x33, 0x44})
	// Bulk command for 5 bytes, then the payload.
	assert.DeepEqual(t, port.written.Bytes(), []byte{0x10 | 4, 0x6C, 0, 0, 0, 0})
}

func TestTxWriteOnly(t *testing.T) {
	bp, port := newFakePirate(t, []byte{0x01, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA})

	assert.NilError(t, bp.Tx([]byte{0xEC, 0xDE, 0xAD, 0xBE, 0xEF}, nil))
	assert.DeepEqual(t, port.written.Bytes(), []byte{0x10 | 4, 0xEC, 0xDE, 0xAD, 0xBE, 0xEF})
}

func TestTxChunksLongTransfers(t *testing.T) {
	replies := []byte{0x01}
	for i := 0; i < 16; i++ {
		replies = append(replies, byte(i))
	}
	replies = append(replies, 0x01, 0xF0, 0xF1, 0xF2, 0xF3)
	bp, port := newFakePirate(t, replies)

	tx := make([]byte, 20)
	rx := make([]byte, 20)
	assert.NilError(t, bp.Tx(tx, rx))

	// One 16-byte bulk command followed by one 4-byte bulk command.
	written := port.written.Bytes()
	assert.Equal(t, written[0], byte(0x10|15))
	assert.Equal(t, written[17], byte(0x10|3))
	assert.Equal(t, rx[16], byte(0xF0))
	assert.Equal(t, rx[19], byte(0xF3))
}

func TestTxLengthMismatch(t *testing.T) {
	bp, _ := newFakePirate(t, nil)
	err := bp.Tx([]byte{1, 2, 3}, make([]byte, 2))
	assert.ErrorContains(t, err, "length")
}

func TestChipSelectPin(t *testing.T) {
	bp, port := newFakePirate(t, []byte{0x01, 0x01})

	cs := bp.CS()
	assert.NilError(t, cs.Low())
	assert.NilError(t, cs.High())
	assert.DeepEqual(t, port.written.Bytes(), []byte{0x02, 0x03})
}

func TestAuxPinTogglesPeripheralBits(t *testing.T) {
	bp, port := newFakePirate(t, []byte{0x01, 0x01, 0x01})

	aux := bp.Aux()
	assert.NilError(t, aux.High())
	assert.NilError(t, bp.SetPower(true))
	assert.NilError(t, aux.Low())

	// AUX and power bits accumulate instead of clobbering each other.
	expected := []byte{
		0x40 | periphAux,
		0x40 | periphAux | periphPower,
		0x40 | periphPower,
	}
	assert.DeepEqual(t, port.written.Bytes(), expected)
}

func TestCommandNak(t *testing.T) {
	bp, _ := newFakePirate(t, []byte{0x00})

	err := bp.CS().Low()
	assert.Assert(t, errors.Is(err, errNak), "error %v, expected a NAK", err)
}

func TestTransfer(t *testing.T) {
	bp, _ := newFakePirate(t, []byte{0x01, 0x5A})

	got, err := bp.Transfer(0xA5)
	assert.NilError(t, err)
	assert.Equal(t, got, byte(0x5A))
}

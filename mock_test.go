package tmc2160

import (
	"encoding/binary"

	"github.com/guptaarnav/tmc2160-driver/registers"
)

// recorder collects named events so tests can assert ordering across pins,
// the delay source and the bus.
type recorder struct {
	events []string
}

func (r *recorder) add(event string) {
	r.events = append(r.events, event)
}

// mockBus implements drivers.SPI. It records every transmitted frame and
// serves queued register values for read transactions.
type mockBus struct {
	frames     [][]byte
	readValues map[registers.Register]uint32
	err        error // injected bus failure
}

func newMockBus() *mockBus {
	return &mockBus{readValues: make(map[registers.Register]uint32)}
}

func (b *mockBus) Tx(w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.frames = append(b.frames, append([]byte(nil), w...))
	if r != nil {
		// Response byte 0 is the chip status byte, left zero here.
		v := b.readValues[registers.Register(w[0]&^registers.WriteFlag)]
		binary.BigEndian.PutUint32(r[1:], v)
	}
	return nil
}

func (b *mockBus) Transfer(byte) (byte, error) { return 0, nil }

func (b *mockBus) transactions() int { return len(b.frames) }

// lastFrame returns the most recently transmitted frame.
func (b *mockBus) lastFrame() []byte {
	if len(b.frames) == 0 {
		return nil
	}
	return b.frames[len(b.frames)-1]
}

// mockPin implements hal.OutputPin, recording transitions and optionally
// failing them.
type mockPin struct {
	name     string
	rec      *recorder
	levels   []bool // recorded transitions, true = high
	failHigh error
	failLow  error
}

func (p *mockPin) High() error {
	if p.failHigh != nil {
		return p.failHigh
	}
	p.levels = append(p.levels, true)
	if p.rec != nil {
		p.rec.add(p.name + "-high")
	}
	return nil
}

func (p *mockPin) Low() error {
	if p.failLow != nil {
		return p.failLow
	}
	p.levels = append(p.levels, false)
	if p.rec != nil {
		p.rec.add(p.name + "-low")
	}
	return nil
}

func (p *mockPin) lastLevel() bool {
	return p.levels[len(p.levels)-1]
}

// mockDelay implements hal.Delay, recording each request.
type mockDelay struct {
	rec   *recorder
	calls []uint32
}

func (d *mockDelay) DelayNs(ns uint32) {
	d.calls = append(d.calls, ns)
	if d.rec != nil {
		d.rec.add("delay")
	}
}

type testRig struct {
	dev   *Device
	bus   *mockBus
	cs    *mockPin
	en    *mockPin
	dir   *mockPin
	step  *mockPin
	delay *mockDelay
	rec   *recorder
}

// newTestRig constructs a Device on fresh mocks. The recorder is attached to
// the step pin and delay only after construction so tests see just the events
// they trigger.
func newTestRig() *testRig {
	r := &testRig{
		bus:   newMockBus(),
		cs:    &mockPin{name: "cs"},
		en:    &mockPin{name: "en"},
		dir:   &mockPin{name: "dir"},
		step:  &mockPin{name: "step"},
		delay: &mockDelay{},
		rec:   &recorder{},
	}
	dev, err := New(r.bus, r.cs, r.en, r.dir, r.step, r.delay)
	if err != nil {
		panic("test rig construction failed: " + err.Error())
	}
	r.dev = dev
	r.step.rec = r.rec
	r.delay.rec = r.rec
	return r
}

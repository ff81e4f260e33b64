// Package tmc2160 drives the Trinamic TMC2160 stepper motor controller over
// SPI. It owns the chip-select, enable, direction and step lines for its
// lifetime and keeps a shadow cache of the chip's write-only registers so
// read-modify-write updates stay correct.
//
// The driver is synchronous and single-owner: every register operation is one
// blocking bus transaction, there is no internal locking, and callers sharing
// a Device across goroutines must serialize access themselves. Failures
// propagate immediately with no retry; multi-step operations such as Init do
// not roll back sub-steps that already succeeded.
//
// Short-to-ground and open-load diagnostics are declared in Status but not
// decoded from hardware; they always read false.
package tmc2160

import (
	"fmt"

	"tinygo.org/x/drivers"

	"github.com/guptaarnav/tmc2160-driver/hal"
	"github.com/guptaarnav/tmc2160-driver/registers"
)

// stepPulseNs is the width of the STEP pulse. Cadence is entirely up to the
// caller; the driver only guarantees the minimum high time.
const stepPulseNs = 1000

// threshold20Max bounds the 20-bit velocity threshold registers.
const threshold20Max = 1<<20 - 1

// Device is a handle to one TMC2160. Construct it with New.
type Device struct {
	bus   drivers.SPI
	cs    hal.OutputPin // chip-select, active low
	en    hal.OutputPin // driver enable, active low
	dir   hal.OutputPin
	step  hal.OutputPin
	delay hal.Delay
	cache *Cache
}

// New puts the hardware into a known safe state and returns a driver handle:
// chip-select released, driver disabled, direction and step low, in that
// order. The first pin failure aborts construction; later lines are left
// untouched. Call Init before normal operation.
func New(bus drivers.SPI, cs, en, dir, step hal.OutputPin, delay hal.Delay) (*Device, error) {
	if err := cs.High(); err != nil {
		return nil, &PinError{Pin: "cs", Err: err}
	}
	if err := en.High(); err != nil {
		return nil, &PinError{Pin: "en", Err: err}
	}
	if err := dir.Low(); err != nil {
		return nil, &PinError{Pin: "dir", Err: err}
	}
	if err := step.Low(); err != nil {
		return nil, &PinError{Pin: "step", Err: err}
	}
	return &Device{
		bus:   bus,
		cs:    cs,
		en:    en,
		dir:   dir,
		step:  step,
		delay: delay,
		cache: NewCache(),
	}, nil
}

// Init applies the default safe configuration: run current 16/31, hold
// current 8/31, hold delay 4 (units of 2^18 clocks), full-step resolution,
// and a chopper off time of 5. A failed sub-step aborts the remainder without
// rolling back earlier ones; re-run Init to recover.
func (d *Device) Init() error {
	if err := d.SetCurrent(16, 8, 4); err != nil {
		return err
	}
	if err := d.SetMicrosteps(FullStep); err != nil {
		return err
	}
	return d.ModifyRegister(registers.ChopConf, func(v uint32) uint32 {
		return registers.TOff.Insert(v, 5)
	})
}

// EnableDriver powers the motor outputs. The enable line is active low.
func (d *Device) EnableDriver() error {
	if err := d.en.Low(); err != nil {
		return &PinError{Pin: "en", Err: err}
	}
	return nil
}

// DisableDriver cuts the motor outputs.
func (d *Device) DisableDriver() error {
	if err := d.en.High(); err != nil {
		return &PinError{Pin: "en", Err: err}
	}
	return nil
}

// SetDirection sets the rotation sense for subsequent steps.
func (d *Device) SetDirection(dir Direction) error {
	var err error
	switch dir {
	case CW:
		err = d.dir.Low()
	case CCW:
		err = d.dir.High()
	default:
		return fmt.Errorf("%w: direction %d", ErrInvalidArgument, dir)
	}
	if err != nil {
		return &PinError{Pin: "dir", Err: err}
	}
	return nil
}

// Step emits a single step pulse: STEP high, a blocking 1000 ns delay, STEP
// low. If raising the line fails, neither the delay nor the falling edge is
// attempted.
func (d *Device) Step() error {
	if err := d.step.High(); err != nil {
		return &PinError{Pin: "step", Err: err}
	}
	d.delay.DelayNs(stepPulseNs)
	if err := d.step.Low(); err != nil {
		return &PinError{Pin: "step", Err: err}
	}
	return nil
}

// SetCurrent programs the IHOLD_IRUN register. Run and hold current scale
// from 0 (1/32) to 31 (32/32); holdDelay from 0 to 7 in units of 2^18 clock
// cycles. Out-of-range values are rejected before any bus access.
func (d *Device) SetCurrent(run, hold, holdDelay uint8) error {
	if run > 31 {
		return fmt.Errorf("%w: run current %d", ErrInvalidArgument, run)
	}
	if hold > 31 {
		return fmt.Errorf("%w: hold current %d", ErrInvalidArgument, hold)
	}
	if holdDelay > 7 {
		return fmt.Errorf("%w: hold delay %d", ErrInvalidArgument, holdDelay)
	}
	value := registers.IHoldIRunFields.Encode(map[string]uint32{
		"ihold":      uint32(hold),
		"irun":       uint32(run),
		"iholddelay": uint32(holdDelay),
	})
	return d.WriteRegister(registers.IHoldIRun, value)
}

// SetMicrosteps updates the MRES field of CHOPCONF. CHOPCONF is readable, so
// the current value comes from the chip.
func (d *Device) SetMicrosteps(res MicrostepResolution) error {
	if res > Microstep256 {
		return fmt.Errorf("%w: microstep resolution %d", ErrInvalidArgument, res)
	}
	return d.ModifyRegister(registers.ChopConf, func(v uint32) uint32 {
		return registers.MRes.Insert(v, uint32(res))
	})
}

// DriverStatus reads GSTAT and DRV_STATUS and returns the decoded snapshot.
func (d *Device) DriverStatus() (Status, error) {
	gstat, err := d.ReadRegister(registers.GStat)
	if err != nil {
		return Status{}, err
	}
	drvStatus, err := d.ReadRegister(registers.DrvStatus)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(gstat, drvStatus), nil
}

// Reset re-applies the Init current settings and chopper off time. It leaves
// microstep resolution and all other registers alone: a partial recovery
// operation, not a reinitialization.
func (d *Device) Reset() error {
	if err := d.SetCurrent(16, 8, 4); err != nil {
		return err
	}
	return d.ModifyRegister(registers.ChopConf, func(v uint32) uint32 {
		return registers.TOff.Insert(v, 5)
	})
}

// EnableStealthChop switches the quiet StealthChop PWM mode on or off via the
// en_pwm_mode flag of GCONF.
func (d *Device) EnableStealthChop(on bool) error {
	return d.ModifyRegister(registers.GConf, func(v uint32) uint32 {
		if on {
			return registers.EnPwmMode.Insert(v, 1)
		}
		return registers.EnPwmMode.Insert(v, 0)
	})
}

// SetStealthChopThreshold programs TPWMTHRS, the upper velocity for
// StealthChop operation, in clock-scaled step time units (20 bit).
func (d *Device) SetStealthChopThreshold(threshold uint32) error {
	if threshold > threshold20Max {
		return fmt.Errorf("%w: TPWMTHRS %d", ErrInvalidArgument, threshold)
	}
	return d.WriteRegister(registers.TPwmThrs, threshold)
}

// SetStallGuardThreshold updates the StallGuard2 threshold in COOLCONF.
// COOLCONF cannot be read back, so the update goes through the shadow cache.
func (d *Device) SetStallGuardThreshold(threshold uint8) error {
	return d.ModifyRegister(registers.CoolConf, func(v uint32) uint32 {
		return registers.SGThrs.Insert(v, uint32(threshold))
	})
}

// SetCoolStepThreshold programs TCOOLTHRS, the lower velocity for CoolStep
// and stall detection (20 bit).
func (d *Device) SetCoolStepThreshold(threshold uint32) error {
	if threshold > threshold20Max {
		return fmt.Errorf("%w: TCOOLTHRS %d", ErrInvalidArgument, threshold)
	}
	return d.WriteRegister(registers.TCoolThrs, threshold)
}

// SetGlobalScaler programs the global current scaling factor. The chip
// accepts 0 (full scale) or 32 through 255; values 1-31 are reserved.
func (d *Device) SetGlobalScaler(scale uint8) error {
	if scale > 0 && scale < 32 {
		return fmt.Errorf("%w: global scaler %d", ErrInvalidArgument, scale)
	}
	return d.WriteRegister(registers.GlobalScaler, uint32(scale))
}

// LostSteps reads the LOST_STEPS counter, incremented for every step skipped
// in DcStep operation.
func (d *Device) LostSteps() (uint32, error) {
	return d.ReadRegister(registers.LostSteps)
}

// StepTime reads TSTEP, the measured time between the two previous steps in
// clock cycles.
func (d *Device) StepTime() (uint32, error) {
	return d.ReadRegister(registers.TStep)
}

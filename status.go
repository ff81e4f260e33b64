package tmc2160

// Direction selects the motor rotation sense via the DIR line.
type Direction uint8

const (
	// CW drives the DIR line low.
	CW Direction = iota
	// CCW drives the DIR line high.
	CCW
)

// MicrostepResolution is the number of electronically synthesized positions
// per full mechanical step. The constant order matches the MRES codes of the
// CHOPCONF register: full step is code 0, 1/256 is code 8.
type MicrostepResolution uint8

const (
	FullStep MicrostepResolution = iota
	HalfStep
	QuarterStep
	EighthStep
	SixteenthStep
	ThirtySecondStep
	SixtyFourthStep
	Microstep128
	Microstep256
)

// Microsteps returns the number of microsteps per full step.
func (m MicrostepResolution) Microsteps() int {
	return 1 << m
}

// Status is a snapshot decoded from the GSTAT and DRV_STATUS registers at the
// moment of the DriverStatus call. It is not stored by the driver.
type Status struct {
	// GSTAT flags.
	ResetFlag    bool // chip has been reset since the last GSTAT read
	DriverError  bool // driver shut down due to an error condition
	Undervoltage bool // charge pump undervoltage

	// DRV_STATUS flags.
	StallGuard  bool  // StallGuard2 stall indicator
	StealthChop bool  // StealthChop PWM mode active
	CSActual    uint8 // actual current scale

	// Short and open load detection are declared but not decoded; they
	// always read false. See the package documentation.
	ShortToGroundA bool
	ShortToGroundB bool
	OpenLoadA      bool
	OpenLoadB      bool
}

// GSTAT bit positions.
const (
	gstatReset        = 1 << 0
	gstatDriverError  = 1 << 1
	gstatUndervoltage = 1 << 2
)

// DRV_STATUS bit positions (decoded subset).
const (
	drvStatusStallGuard  = 1 << 14
	drvStatusStealthChop = 1 << 15
	drvStatusCSShift     = 16
	drvStatusCSMask      = 0xFF
)

func decodeStatus(gstat, drvStatus uint32) Status {
	return Status{
		ResetFlag:    gstat&gstatReset != 0,
		DriverError:  gstat&gstatDriverError != 0,
		Undervoltage: gstat&gstatUndervoltage != 0,
		StallGuard:   drvStatus&drvStatusStallGuard != 0,
		StealthChop:  drvStatus&drvStatusStealthChop != 0,
		CSActual:     uint8(drvStatus >> drvStatusCSShift & drvStatusCSMask),
	}
}

// Package registers holds the TMC2160 register map and the bitfield codec
// used to pack and unpack named sub-fields of the 32-bit register values.
//
// Addresses and field layouts follow the TMC2160 datasheet. The chip talks a
// 40-bit SPI frame per register access: one address byte followed by four data
// bytes, most significant first. Bit 7 of the address byte selects the access
// direction (1 = write).
package registers

// Register is a 7-bit TMC2160 register address.
type Register uint8

// WriteFlag is OR'd into the address byte of a frame to request a write
// access. Reads leave bit 7 clear.
const WriteFlag = 0x80

// General configuration registers (0x00-0x0F)
const (
	GConf        Register = 0x00 // Global configuration flags
	GStat        Register = 0x01 // Global status flags
	IOIn         Register = 0x04 // State of all input pins
	OtpProg      Register = 0x06 // OTP memory programming
	OtpRead      Register = 0x07 // OTP memory read
	FactoryConf  Register = 0x08 // Factory configuration
	ShortConf    Register = 0x09 // Short circuit detection configuration
	DrvConf      Register = 0x0A // Driver strength and protection
	GlobalScaler Register = 0x0B // Global current scaling factor
	OffsetRead   Register = 0x0C // Offset calibration result
)

// Velocity dependent driver feature control (0x10-0x1F)
const (
	IHoldIRun  Register = 0x10 // Driver current control (hold, run, delay)
	TPowerDown Register = 0x11 // Delay until standstill current reduction
	TStep      Register = 0x12 // Measured time between two steps (read only)
	TPwmThrs   Register = 0x13 // Upper velocity threshold for StealthChop
	TCoolThrs  Register = 0x14 // Lower threshold for CoolStep and StallGuard
	THigh      Register = 0x15 // High velocity threshold
)

// DcStep minimum velocity (0x33)
const (
	VDCMin Register = 0x33 // Minimum velocity for DcStep commutation
)

// Motor driver registers (0x60-0x7F)
const (
	MSLut0     Register = 0x60 // Microstep table entry 0
	MSLut1     Register = 0x61 // Microstep table entry 1
	MSLut2     Register = 0x62 // Microstep table entry 2
	MSLut3     Register = 0x63 // Microstep table entry 3
	MSLut4     Register = 0x64 // Microstep table entry 4
	MSLut5     Register = 0x65 // Microstep table entry 5
	MSLut6     Register = 0x66 // Microstep table entry 6
	MSLut7     Register = 0x67 // Microstep table entry 7
	MSLutSel   Register = 0x68 // Microstep table segmentation
	MSLutStart Register = 0x69 // Microstep table start values
	MSCnt      Register = 0x6A // Microstep counter (read only)
	MSCurAct   Register = 0x6B // Actual phase currents (read only)
	ChopConf   Register = 0x6C // Chopper configuration
	CoolConf   Register = 0x6D // CoolStep and StallGuard2 configuration
	DCCtrl     Register = 0x6E // DcStep control
	DrvStatus  Register = 0x6F // Diagnostics and StallGuard2 feedback
	PwmConf    Register = 0x70 // StealthChop PWM configuration
	PwmScale   Register = 0x71 // PWM scale readback (read only)
	PwmAuto    Register = 0x72 // Automatic PWM control (read only)
	LostSteps  Register = 0x73 // Lost step counter
)

var registerNames = map[Register]string{
	GConf:        "GCONF",
	GStat:        "GSTAT",
	IOIn:         "IOIN",
	OtpProg:      "OTP_PROG",
	OtpRead:      "OTP_READ",
	FactoryConf:  "FACTORY_CONF",
	ShortConf:    "SHORT_CONF",
	DrvConf:      "DRV_CONF",
	GlobalScaler: "GLOBAL_SCALER",
	OffsetRead:   "OFFSET_READ",
	IHoldIRun:    "IHOLD_IRUN",
	TPowerDown:   "TPOWERDOWN",
	TStep:        "TSTEP",
	TPwmThrs:     "TPWMTHRS",
	TCoolThrs:    "TCOOLTHRS",
	THigh:        "THIGH",
	VDCMin:       "VDCMIN",
	MSLut0:       "MSLUT0",
	MSLut1:       "MSLUT1",
	MSLut2:       "MSLUT2",
	MSLut3:       "MSLUT3",
	MSLut4:       "MSLUT4",
	MSLut5:       "MSLUT5",
	MSLut6:       "MSLUT6",
	MSLut7:       "MSLUT7",
	MSLutSel:     "MSLUTSEL",
	MSLutStart:   "MSLUTSTART",
	MSCnt:        "MSCNT",
	MSCurAct:     "MSCURACT",
	ChopConf:     "CHOPCONF",
	CoolConf:     "COOLCONF",
	DCCtrl:       "DCCTRL",
	DrvStatus:    "DRV_STATUS",
	PwmConf:      "PWMCONF",
	PwmScale:     "PWM_SCALE",
	PwmAuto:      "PWM_AUTO",
	LostSteps:    "LOST_STEPS",
}

// String returns the datasheet name of the register, or a hex rendering for
// addresses outside the known map.
func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	const hexdigits = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hexdigits[r>>4], hexdigits[r&0x0F]})
}

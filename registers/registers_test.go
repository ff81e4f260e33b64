package registers

import "testing"

func TestRegisterAddresses(t *testing.T) {
	// Spot check the address table against the datasheet map.
	testCases := []struct {
		reg      Register
		expected uint8
	}{
		{GConf, 0x00},
		{GStat, 0x01},
		{IOIn, 0x04},
		{GlobalScaler, 0x0B},
		{IHoldIRun, 0x10},
		{TPwmThrs, 0x13},
		{TCoolThrs, 0x14},
		{VDCMin, 0x33},
		{MSLut0, 0x60},
		{MSLut7, 0x67},
		{ChopConf, 0x6C},
		{CoolConf, 0x6D},
		{DrvStatus, 0x6F},
		{PwmConf, 0x70},
		{LostSteps, 0x73},
	}

	for _, tc := range testCases {
		if uint8(tc.reg) != tc.expected {
			t.Errorf("%v address = %#x, expected %#x", tc.reg, uint8(tc.reg), tc.expected)
		}
		if uint8(tc.reg)&WriteFlag != 0 {
			t.Errorf("%v address %#x collides with the write flag", tc.reg, uint8(tc.reg))
		}
	}
}

func TestRegisterString(t *testing.T) {
	if got := ChopConf.String(); got != "CHOPCONF" {
		t.Errorf("ChopConf.String() = %q, expected CHOPCONF", got)
	}
	if got := Register(0x3F).String(); got != "0x3F" {
		t.Errorf("unknown register String() = %q, expected 0x3F", got)
	}
}

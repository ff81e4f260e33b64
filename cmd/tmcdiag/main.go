// Command tmcdiag talks to a TMC2160 through a Bus Pirate compatible probe
// and dumps the chip's status and readable configuration registers. The
// probe's AUX line drives the enable input; STEP and DIR are expected to be
// unconnected on a diagnostics hookup.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tmc2160 "github.com/guptaarnav/tmc2160-driver"
	"github.com/guptaarnav/tmc2160-driver/bridge"
	"github.com/guptaarnav/tmc2160-driver/hal"
	"github.com/guptaarnav/tmc2160-driver/registers"
)

var (
	device = flag.String("device", "/dev/ttyUSB0", "serial device of the probe")
	baud   = flag.Int("baud", 115200, "serial baud rate")
	doInit = flag.Bool("init", false, "apply the default safe configuration first")
)

// dumpRegisters lists the hardware-readable registers worth inspecting on a
// bench. Write-only registers are deliberately absent: reading them returns
// undefined data.
var dumpRegisters = []registers.Register{
	registers.GConf,
	registers.GStat,
	registers.IOIn,
	registers.FactoryConf,
	registers.GlobalScaler,
	registers.OffsetRead,
	registers.TStep,
	registers.MSCnt,
	registers.ChopConf,
	registers.DrvStatus,
	registers.PwmScale,
	registers.PwmAuto,
	registers.LostSteps,
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("tmcdiag: ")

	cfg := bridge.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := bridge.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}

	probe, err := bridge.NewBusPirate(port)
	if err != nil {
		port.Close()
		log.Fatal(err)
	}
	defer probe.Close()

	dev, err := tmc2160.New(probe, probe.CS(), probe.Aux(),
		hal.Unconnected{}, hal.Unconnected{}, hal.SleepDelay{})
	if err != nil {
		log.Fatal(err)
	}

	if *doInit {
		log.Print("applying default configuration")
		if err := dev.Init(); err != nil {
			log.Fatal(err)
		}
	}

	status, err := dev.DriverStatus()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("reset flag:    %v\n", status.ResetFlag)
	fmt.Printf("driver error:  %v\n", status.DriverError)
	fmt.Printf("undervoltage:  %v\n", status.Undervoltage)
	fmt.Printf("stallguard:    %v\n", status.StallGuard)
	fmt.Printf("stealthchop:   %v\n", status.StealthChop)
	fmt.Printf("current scale: %d\n", status.CSActual)
	fmt.Println()

	failed := false
	for _, reg := range dumpRegisters {
		v, err := dev.ReadRegister(reg)
		if err != nil {
			log.Printf("read %v: %v", reg, err)
			failed = true
			continue
		}
		fmt.Printf("%-13s (0x%02X) = 0x%08X\n", reg, uint8(reg), v)
	}
	if failed {
		os.Exit(1)
	}
}

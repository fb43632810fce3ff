package sram

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// Device is an SRAM wired to an FTDI FT232H/FT2232H MPSSE port.
type Device struct {
	FTDI *ftdi.FT232H
	SRAM *SRAM

	cs   gpio.PinIO
	hold gpio.PinIO // optional, active low

	port spi.PortCloser
}

var hostInitialized atomic.Bool

// NewDevice finds the FTDI adapter, resolves the pins named in cfg and opens
// an SRAM session over its SPI port. holdPin may be empty when the HOLD input
// of the chip is tied high.
//
//	ADBUS0 | SCK
//	ADBUS1 | MOSI (SI)
//	ADBUS2 | MISO (SO)
//	ADBUSx | CS, HOLD: any free GPIO, named by cfg.ChipSelect and holdPin
func NewDevice(cfg Config, holdPin string) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ChipSelect == "" {
		return nil, fmt.Errorf("%w: chip select pin is required", ErrConfig)
	}

	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host initialization failed: %w", err)
		}
	}

	d := &Device{}
	if err := d.findFT232H(); err != nil {
		return nil, err
	}

	var err error
	if d.cs, err = d.pin(cfg.ChipSelect); err != nil {
		return nil, err
	}
	if holdPin != "" {
		if d.hold, err = d.pin(holdPin); err != nil {
			return nil, err
		}
		if err := d.Hold(gpio.High); err != nil {
			return nil, fmt.Errorf("failed to release HOLD: %w", err)
		}
	}

	if d.port, err = d.FTDI.SPI(); err != nil {
		return nil, fmt.Errorf("failed to get SPI port: %w", err)
	}

	// [FTDI AN_114|1.2]> FTDI device can only support mode 0 and mode 2 due to the limitation of MPSSE engine
	// [23LC1024|1.0] mode 0 and mode 3 are supported
	if d.SRAM, err = Open(d.port, d.cs, cfg); err != nil {
		d.port.Close()
		return nil, err
	}
	return d, nil
}

// Hold drives the HOLD line. Low pauses the transfer in progress, high
// resumes it. It is a no-op when no HOLD pin was configured.
func (d *Device) Hold(l gpio.Level) error {
	if d.hold == nil {
		return nil
	}
	return d.hold.Out(l)
}

// Close releases the SPI port.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *Device) findFT232H() error {
	const (
		vendorID = 0x0403 // FTDI
	)

	info := ftdi.Info{}
	for _, dev := range ftdi.All() {
		dev.Info(&info)
		if info.VenID != vendorID {
			continue
		}
		if ft, ok := dev.(*ftdi.FT232H); ok {
			d.FTDI = ft
			return nil
		}
	}

	return errors.New("FT232H/FT2232H device not found")
}

// pin looks up a GPIO of the adapter by its bus name, "D0".."D7" (ADBUS) or
// "C0".."C7" (ACBUS).
func (d *Device) pin(name string) (gpio.PinIO, error) {
	ft := d.FTDI
	pins := map[string]gpio.PinIO{
		"D0": ft.D0, "D1": ft.D1, "D2": ft.D2, "D3": ft.D3,
		"D4": ft.D4, "D5": ft.D5, "D6": ft.D6, "D7": ft.D7,
		"C0": ft.C0, "C1": ft.C1, "C2": ft.C2, "C3": ft.C3,
		"C4": ft.C4, "C5": ft.C5, "C6": ft.C6, "C7": ft.C7,
	}
	switch strings.ToUpper(name) {
	case "D0", "D1", "D2":
		return nil, fmt.Errorf("pin %s is used by the SPI port", name)
	}
	if p, ok := pins[strings.ToUpper(name)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("pin %q not found on %s", name, ft)
}

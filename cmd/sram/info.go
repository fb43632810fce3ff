package main

import (
	"flag"
	"fmt"

	"periph.io/x/host/v3/ftdi"
)

func infoCommand(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	s, err := openSession()
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	if s.dev != nil {
		printFTDIInfo(s.dev.FTDI)
	}

	part := s.PartName()
	if part == "" {
		part = "unknown"
	}
	fmt.Printf("Part:            %s\n", part)
	fmt.Printf("Capacity:        %d kbit (%d bytes)\n", s.cfg.CapacityKbit, s.Size())
	fmt.Printf("Address:         %d bit\n", s.AddressBytes()*8)
	fmt.Printf("Clock:           %s\n", s.cfg.Clock)
	fmt.Printf("SPI mode:        %d, %s first\n", int(s.cfg.Mode), s.cfg.BitOrder)

	mr, err := s.ReadModeRegister()
	if err != nil {
		fatalf("read mode register failed: %v", err)
	}
	fmt.Printf("Mode register:   %s\n", mr)
}

func printFTDIInfo(ft *ftdi.FT232H) {
	// Reference: https://github.com/periph/cmd/tree/main/ftdi-list
	i := ftdi.Info{}
	ft.Info(&i)
	fmt.Printf("Type:            %s\n", i.Type)
	fmt.Printf("Vendor ID:       %#04x\n", i.VenID)
	fmt.Printf("Device ID:       %#04x\n", i.DevID)

	ee := ftdi.EEPROM{}
	if err := ft.EEPROM(&ee); err != nil {
		fatalf("failed to read EEPROM: %v", err)
	}
	fmt.Printf("Manufacturer:    %s\n", ee.Manufacturer)
	fmt.Printf("Desc:            %s\n", ee.Desc)
	fmt.Printf("Serial:          %s\n", ee.Serial)
}

// Package sram drives Microchip 23xx serial SRAM chips over SPI.
//
// An SRAM session owns one chip select line. It keeps track of the device
// mode register and only rewrites it when an access needs a different mode:
// single bytes use byte mode, 32-byte pages use page mode and everything else
// uses sequential mode. Devices up to 512Kbit take 16-bit addresses, larger
// ones 24-bit addresses.
//
// # References:
//
// FTDI (https://ftdichip.com/document/application-notes/)
//   - [FTDI-AN_108]: Command Processor for MPSSE and MCU Host Bus Emulation Modes (https://ftdichip.com/wp-content/uploads/2020/08/AN_108_Command_Processor_for_MPSSE_and_MCU_Host_Bus_Emulation_Modes.pdf)
//   - [FTDI-AN_114]: Interfacing FT2232H Hi-Speed Devices To SPI Bus (https://ftdichip.com/wp-content/uploads/2020/08/AN_114_FTDI_Hi_Speed_USB_To_SPI_Example.pdf)
//
// SPI SRAM
//   - [23K256]: 23A256/23K256 256K SPI Bus Low-Power Serial SRAM (https://ww1.microchip.com/downloads/en/DeviceDoc/22100F.pdf)
//   - [23K640]: 23A640/23K640 64K SPI Bus Low-Power Serial SRAM (https://ww1.microchip.com/downloads/en/DeviceDoc/22126E.pdf)
//   - [23LC512]: 23A512/23LC512 512Kbit SPI Serial SRAM with SDI and SQI Interface (https://ww1.microchip.com/downloads/en/DeviceDoc/20005155B.pdf)
//   - [23LC1024]: 23A1024/23LC1024 1Mbit SPI Serial SRAM with SDI and SQI Interface (https://ww1.microchip.com/downloads/en/DeviceDoc/20005142C.pdf)
package sram

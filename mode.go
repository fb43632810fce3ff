package sram

import "fmt"

// SRAM instructions:
//   - [23K256|Table 2-1: Instruction Set]
//   - [23LC1024|Table 2-1: Instruction Set]
const (
	sramCmdRead              = 0x03
	sramCmdWrite             = 0x02
	sramCmdReadModeRegister  = 0x05
	sramCmdWriteModeRegister = 0x01
)

// ModeRegister represents the mode register of the SRAM.
//
//	Bits| [23LC1024|2.5 Read Mode Register Instruction]
//	----+----------------------------------------------
//	7:6 | 00 = Byte mode, 10 = Page mode, 01 = Sequential mode, 11 = Reserved
//	5:1 | Reserved
//	0   | HOLD (23K256: 1 = HOLD pin disabled)
type ModeRegister byte

const (
	ModeByte       ModeRegister = 0x00
	ModePage       ModeRegister = 0x80
	ModeSequential ModeRegister = 0x40

	ModeHold ModeRegister = 0x01

	modeMask ModeRegister = 0xC0
)

// Operation returns the operating mode without the HOLD bit.
func (mr ModeRegister) Operation() ModeRegister { return mr & modeMask }
func (mr ModeRegister) Hold() bool              { return mr&ModeHold != 0 }

func (mr ModeRegister) String() string {
	var s string
	switch mr.Operation() {
	case ModeByte:
		s = "BYTE"
	case ModePage:
		s = "PAGE"
	case ModeSequential:
		s = "SEQUENTIAL"
	default:
		s = "RESERVED"
	}
	if mr.Hold() {
		s += ",HOLD"
	}
	return fmt.Sprintf("%08b %s", byte(mr), s)
}

// op describes one data-phase transaction: the mode the device must be in and
// the instruction that follows the mode register.
type op struct {
	mode ModeRegister
	cmd  byte
}

var (
	opReadByte  = op{ModeByte, sramCmdRead}
	opWriteByte = op{ModeByte, sramCmdWrite}
	opReadSeq   = op{ModeSequential, sramCmdRead}
	opWriteSeq  = op{ModeSequential, sramCmdWrite}
	opReadPage  = op{ModePage, sramCmdRead}
	opWritePage = op{ModePage, sramCmdWrite}
)

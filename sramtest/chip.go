// Package sramtest implements a behavioural model of a 23xx serial SRAM
// behind an SPI connection and a GPIO chip select, for testing code that
// talks to the chip without hardware.
//
// The model decodes READ, WRITE, RDMR and WRMR, honours byte, page and
// sequential modes, and records every chip select change and bus byte.
package sramtest

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	cmdRead              = 0x03
	cmdWrite             = 0x02
	cmdReadModeRegister  = 0x05
	cmdWriteModeRegister = 0x01

	modeByte       = 0x00
	modePage       = 0x80
	modeSequential = 0x40
	modeMask       = 0xC0

	pageSize = 32
)

type state int

const (
	stateIdle state = iota
	stateCmd
	stateAddr
	stateData
	stateModeWrite
	stateModeRead
	stateIgnore
)

// EventKind is the kind of a recorded bus event.
type EventKind int

const (
	Select   EventKind = iota // chip select driven low
	Deselect                  // chip select driven high
	Byte                      // one byte shifted on the bus
)

// Event is one entry of the chip trace. Out and In are only set for Byte.
type Event struct {
	Kind EventKind
	Out  byte // MOSI
	In   byte // MISO
}

func (e Event) String() string {
	switch e.Kind {
	case Select:
		return "CS:low"
	case Deselect:
		return "CS:high"
	}
	return fmt.Sprintf("%02X/%02X", e.Out, e.In)
}

// Chip is an SRAM model. It implements spi.Conn; its chip select pin is
// returned by CS. It is not safe for concurrent use.
type Chip struct {
	// TxErr, when set, is returned by Tx without touching the chip.
	TxErr error
	// MaxTx limits the size of one Tx call when positive.
	MaxTx int

	mem       []byte
	addrBytes int
	mode      byte
	cs        *Pin

	selected bool
	state    state
	cmd      byte
	addr     uint32
	naddr    int
	ndata    int

	trace []Event
	nTx   int
}

// NewChip returns a model of a device with the given capacity in kbit. The
// memory is zeroed and the mode register starts in sequential mode, the power
// on default of the 23LC1024.
func NewChip(kbit int) *Chip {
	c := &Chip{
		mem:       make([]byte, kbit*1024/8),
		addrBytes: 2,
		mode:      modeSequential,
	}
	if kbit > 512 {
		c.addrBytes = 3
	}
	c.cs = &Pin{Pin: gpiotest.Pin{N: "CS", Num: -1, L: gpio.High}, chip: c}
	return c
}

// CS returns the chip select pin of the chip.
func (c *Chip) CS() *Pin { return c.cs }

// Mem returns the memory array of the chip. Changes are visible to the bus.
func (c *Chip) Mem() []byte { return c.mem }

// Mode returns the current mode register value.
func (c *Chip) Mode() byte { return c.mode }

// Selected reports whether chip select is low.
func (c *Chip) Selected() bool { return c.selected }

// Trace returns the recorded events.
func (c *Chip) Trace() []Event { return c.trace }

// TxCount returns the number of Tx calls since the last ResetTrace.
func (c *Chip) TxCount() int { return c.nTx }

// ResetTrace clears the recorded events and the Tx counter.
func (c *Chip) ResetTrace() {
	c.trace = nil
	c.nTx = 0
}

// Frames groups the MOSI bytes of the trace by chip select window. Bytes sent
// while the chip is not selected are dropped.
func (c *Chip) Frames() [][]byte {
	var frames [][]byte
	var cur []byte
	in := false
	for _, e := range c.trace {
		switch e.Kind {
		case Select:
			if !in {
				cur, in = []byte{}, true
			}
		case Deselect:
			if in {
				frames = append(frames, cur)
				in = false
			}
		case Byte:
			if in {
				cur = append(cur, e.Out)
			}
		}
	}
	return frames
}

// CSEvents returns only the chip select events of the trace, as "L" and "H".
func (c *Chip) CSEvents() string {
	var b strings.Builder
	for _, e := range c.trace {
		switch e.Kind {
		case Select:
			b.WriteByte('L')
		case Deselect:
			b.WriteByte('H')
		}
	}
	return b.String()
}

func (c *Chip) String() string {
	return fmt.Sprintf("sramtest(%dKb)", len(c.mem)*8/1024)
}

func (c *Chip) Duplex() conn.Duplex { return conn.Full }

// MaxTxSize implements conn.Limits.
func (c *Chip) MaxTxSize() int { return c.MaxTx }

// Tx shifts w out to the chip and the response into r. r may be nil or alias
// w.
func (c *Chip) Tx(w, r []byte) error {
	if c.TxErr != nil {
		return c.TxErr
	}
	if c.MaxTx > 0 && len(w) > c.MaxTx {
		return fmt.Errorf("sramtest: transaction of %d bytes exceeds %d", len(w), c.MaxTx)
	}
	if len(r) != 0 && len(r) < len(w) {
		return errors.New("sramtest: read buffer shorter than write buffer")
	}
	c.nTx++
	for i, b := range w {
		in := c.shift(b)
		c.trace = append(c.trace, Event{Kind: Byte, Out: b, In: in})
		if len(r) != 0 {
			r[i] = in
		}
	}
	return nil
}

func (c *Chip) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if err := c.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chip) setCS(l gpio.Level) {
	if l == gpio.Low {
		c.trace = append(c.trace, Event{Kind: Select})
		if !c.selected {
			c.selected = true
			c.state = stateCmd
		}
		return
	}
	c.trace = append(c.trace, Event{Kind: Deselect})
	c.selected = false
	c.state = stateIdle
}

// shift clocks one byte through the chip and returns the byte on SO.
func (c *Chip) shift(b byte) byte {
	if !c.selected {
		return 0xFF // SO is high impedance
	}

	switch c.state {
	case stateCmd:
		c.cmd = b
		switch b {
		case cmdRead, cmdWrite:
			c.state = stateAddr
			c.addr, c.naddr = 0, 0
		case cmdWriteModeRegister:
			c.state = stateModeWrite
		case cmdReadModeRegister:
			c.state = stateModeRead
		default:
			c.state = stateIgnore
		}
	case stateAddr:
		c.addr = c.addr<<8 | uint32(b)
		c.naddr++
		if c.naddr == c.addrBytes {
			c.addr %= uint32(len(c.mem))
			c.state = stateData
			c.ndata = 0
		}
	case stateData:
		return c.data(b)
	case stateModeWrite:
		c.mode = b
		c.state = stateIgnore
	case stateModeRead:
		return c.mode
	}
	return 0
}

func (c *Chip) data(b byte) byte {
	mode := c.mode & modeMask
	if mode == modeByte && c.ndata > 0 {
		return 0 // one byte per instruction
	}
	c.ndata++

	var out byte
	if c.cmd == cmdWrite {
		c.mem[c.addr] = b
	} else {
		out = c.mem[c.addr]
	}

	switch mode {
	case modePage:
		c.addr = c.addr&^(pageSize-1) | (c.addr+1)&(pageSize-1)
	case modeSequential:
		c.addr = (c.addr + 1) % uint32(len(c.mem))
	}
	return out
}

// Pin is the chip select input of a Chip.
type Pin struct {
	gpiotest.Pin
	chip *Chip
}

func (p *Pin) Out(l gpio.Level) error {
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	p.chip.setCS(l)
	return nil
}

// Port is an spi.PortCloser handing out the chip as its connection. It
// records the parameters of the last Connect call.
type Port struct {
	Chip *Chip

	Freq physic.Frequency
	Mode spi.Mode
	Bits int
}

func (p *Port) String() string { return "sramtest-port" }

func (p *Port) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("sramtest: unsupported bits per word %d", bits)
	}
	p.Freq, p.Mode, p.Bits = f, mode, bits
	return p.Chip, nil
}

func (p *Port) LimitSpeed(f physic.Frequency) error {
	p.Freq = f
	return nil
}

func (p *Port) Close() error { return nil }

var (
	_ spi.Conn       = (*Chip)(nil)
	_ conn.Limits    = (*Chip)(nil)
	_ spi.PortCloser = (*Port)(nil)
	_ gpio.PinIO     = (*Pin)(nil)
)

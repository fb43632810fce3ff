package sram

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var (
	ErrConfig         = errors.New("invalid configuration")
	ErrNotInitialized = errors.New("sram not initialized")
	ErrAddressRange   = errors.New("address out of range")
)

// BitOrder selects which bit of each byte is shifted first.
type BitOrder int

const (
	MSBFirst BitOrder = iota + 1
	LSBFirst
)

func (b BitOrder) String() string {
	switch b {
	case MSBFirst:
		return "msb"
	case LSBFirst:
		return "lsb"
	}
	return fmt.Sprintf("BitOrder(%d)", int(b))
}

// Config holds the bus and device settings of one SRAM session. Every field
// except Hold and Logger is required.
type Config struct {
	// ChipSelect names the chip select pin. It is resolved by NewDevice;
	// New and Open take the pin directly.
	ChipSelect string

	Clock        physic.Frequency
	Mode         spi.Mode // Mode0..Mode3
	BitOrder     BitOrder
	CapacityKbit int

	// Hold sets the HOLD bit in every mode register value.
	Hold bool

	Logger *slog.Logger
}

// Validate reports whether c can be used to open a session.
func (c *Config) Validate() error {
	if c.CapacityKbit <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d kbit", ErrConfig, c.CapacityKbit)
	}
	if c.CapacityKbit > maxCapacityKbit {
		return fmt.Errorf("%w: capacity %d kbit exceeds the 24-bit address space", ErrConfig, c.CapacityKbit)
	}
	if c.Clock <= 0 {
		return fmt.Errorf("%w: clock is required", ErrConfig)
	}
	if c.Mode&^spi.Mode3 != 0 {
		return fmt.Errorf("%w: unsupported SPI mode %d", ErrConfig, int(c.Mode))
	}
	if c.BitOrder != MSBFirst && c.BitOrder != LSBFirst {
		return fmt.Errorf("%w: bit order is required", ErrConfig)
	}
	return nil
}

// SRAM is a session with one serial SRAM chip. It caches the device mode
// register and the chip select level, so it must be the only user of the chip
// select line. It is not safe for concurrent use.
type SRAM struct {
	conn spi.Conn
	cs   gpio.PinOut
	cfg  Config
	log  *slog.Logger

	selected  bool
	mode      ModeRegister
	modeValid bool
	maxTx     int
}

// Connect opens an SPI connection on port with the clock, mode and bit order
// of cfg. The clock is limited to the maximum of the configured part.
func Connect(port spi.Port, cfg Config) (spi.Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clk := min(cfg.Clock, maxClock(cfg.CapacityKbit))
	mode := cfg.Mode
	if cfg.BitOrder == LSBFirst {
		mode |= spi.LSBFirst
	}
	c, err := port.Connect(clk, mode, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to connect SPI at %s: %w", clk, err)
	}
	return c, nil
}

// Open connects to port and returns a session using cs as chip select.
func Open(port spi.Port, cs gpio.PinOut, cfg Config) (*SRAM, error) {
	c, err := Connect(port, cfg)
	if err != nil {
		return nil, err
	}
	return New(c, cs, cfg)
}

// New returns a session over an already configured connection. The chip
// select line is driven inactive (high).
func New(c spi.Conn, cs gpio.PinOut, cfg Config) (*SRAM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil || cs == nil {
		return nil, fmt.Errorf("%w: connection and chip select are required", ErrConfig)
	}

	s := &SRAM{
		conn:     c,
		cs:       cs,
		cfg:      cfg,
		log:      cfg.Logger,
		selected: true, // force the first deselect onto the line
		maxTx:    65536, // [FTDI-AN_108]
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		s.maxTx = l.MaxTxSize()
	}
	if err := s.deselectChip(); err != nil {
		return nil, fmt.Errorf("failed to release chip select: %w", err)
	}

	s.log.Debug("sram session opened",
		"conn", c.String(),
		"cs", cs.String(),
		"capacity_kbit", cfg.CapacityKbit,
		"part", s.PartName())
	return s, nil
}

// Size returns the capacity of the device in bytes.
func (s *SRAM) Size() int64 {
	return int64(s.cfg.CapacityKbit) * 1024 / 8
}

// PartName returns the name of the known part matching the configured
// capacity, or an empty string.
func (s *SRAM) PartName() string {
	return PartName(s.cfg.CapacityKbit)
}

// CachedMode returns the mode register value this session last wrote or read.
// ok is false until the first access.
func (s *SRAM) CachedMode() (mr ModeRegister, ok bool) {
	return s.mode, s.modeValid
}

func (s *SRAM) selectChip() error {
	if s.selected {
		return nil
	}
	if err := s.cs.Out(gpio.Low); err != nil {
		return err
	}
	s.selected = true
	return nil
}

func (s *SRAM) deselectChip() error {
	if !s.selected {
		return nil
	}
	if err := s.cs.Out(gpio.High); err != nil {
		return err
	}
	s.selected = false
	return nil
}

// setModeRegister selects the chip and makes sure the device is in the
// requested mode. Writing the mode register is a complete instruction, so the
// chip select is cycled afterwards. On return the chip is selected.
func (s *SRAM) setModeRegister(mode ModeRegister) error {
	if s.cfg.Hold {
		mode |= ModeHold
	}
	if err := s.selectChip(); err != nil {
		return err
	}
	if s.modeValid && s.mode == mode {
		return nil
	}

	s.modeValid = false
	buf := []byte{sramCmdWriteModeRegister, byte(mode)}
	if err := s.conn.Tx(buf, buf); err != nil {
		return fmt.Errorf("failed to write mode register: %w", err)
	}
	s.mode, s.modeValid = mode, true
	s.log.Debug("mode register written", "mode", mode)

	if err := s.deselectChip(); err != nil {
		return err
	}
	return s.selectChip()
}

// AddressBytes returns the width of the address sent with every instruction.
func (s *SRAM) AddressBytes() int {
	if s.cfg.CapacityKbit > addr16MaxKbit {
		return 3
	}
	return 2
}

// frameAddress appends the address bytes for addr to b, most significant
// byte first.
func (s *SRAM) frameAddress(b []byte, addr uint32) []byte {
	if s.AddressBytes() == 3 {
		b = append(b, byte(addr>>16))
	}
	return append(b, byte(addr>>8), byte(addr))
}

func (s *SRAM) checkRange(addr uint32, n int) error {
	if s.conn == nil {
		return ErrNotInitialized
	}
	if n < 0 || uint64(addr)+uint64(n) > uint64(s.Size()) {
		return fmt.Errorf("%w: 0x%X+%d exceeds %d bytes", ErrAddressRange, addr, n, s.Size())
	}
	return nil
}

// xfer runs one data transaction: mode register, instruction, address, then
// data. For write instructions data is shifted out; for read instructions
// data is filled with the bytes shifted in. The transfer is split into
// several Tx calls inside the same chip select window when it exceeds the
// maximum transaction size of the connection.
func (s *SRAM) xfer(o op, addr uint32, data []byte) (err error) {
	defer func() {
		if csErr := s.deselectChip(); csErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release chip select: %w", csErr))
		}
	}()

	if err = s.setModeRegister(o.mode); err != nil {
		return err
	}

	buf := make([]byte, 0, 4+len(data))
	buf = append(buf, o.cmd)
	buf = s.frameAddress(buf, addr)
	hdr := len(buf)
	if o.cmd == sramCmdWrite {
		buf = append(buf, data...)
	} else {
		buf = buf[:hdr+len(data)] // dummy bytes clock in data
	}

	for off := 0; off < len(buf); {
		chunk := buf[off:min(len(buf), off+s.maxTx)]
		if err = s.conn.Tx(chunk, chunk); err != nil {
			return err
		}
		off += len(chunk)
	}

	if o.cmd == sramCmdRead {
		copy(data, buf[hdr:])
	}
	return nil
}

// ReadModeRegister reads the mode register of the device and refreshes the
// cached value.
func (s *SRAM) ReadModeRegister() (mr ModeRegister, err error) {
	if s.conn == nil {
		return 0, ErrNotInitialized
	}
	if err = s.selectChip(); err != nil {
		return 0, err
	}
	defer func() {
		if csErr := s.deselectChip(); csErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release chip select: %w", csErr))
		}
	}()

	buf := []byte{sramCmdReadModeRegister, 0}
	if err = s.conn.Tx(buf, buf); err != nil {
		return 0, err
	}
	mr = ModeRegister(buf[1])
	s.mode, s.modeValid = mr, true
	return mr, nil
}

package sram

import (
	"encoding/binary"
	"math"
)

// Scalars are stored least significant byte first.
var le = binary.LittleEndian

// access checks the byte range and runs one transaction. Empty buffers cause
// no bus traffic.
func (s *SRAM) access(o op, addr uint32, buf []byte) error {
	if err := s.checkRange(addr, len(buf)); err != nil {
		return err
	}
	if len(buf) == 0 {
		return nil
	}
	return s.xfer(o, addr, buf)
}

// ReadUint8 reads one byte in byte mode.
func (s *SRAM) ReadUint8(addr uint32) (uint8, error) {
	var buf [1]byte
	if err := s.access(opReadByte, addr, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteUint8 writes one byte in byte mode.
func (s *SRAM) WriteUint8(addr uint32, v uint8) error {
	return s.access(opWriteByte, addr, []byte{v})
}

func (s *SRAM) ReadUint16(addr uint32) (uint16, error) {
	var buf [2]byte
	if err := s.access(opReadSeq, addr, buf[:]); err != nil {
		return 0, err
	}
	return le.Uint16(buf[:]), nil
}

func (s *SRAM) WriteUint16(addr uint32, v uint16) error {
	return s.access(opWriteSeq, addr, le.AppendUint16(nil, v))
}

func (s *SRAM) ReadUint32(addr uint32) (uint32, error) {
	var buf [4]byte
	if err := s.access(opReadSeq, addr, buf[:]); err != nil {
		return 0, err
	}
	return le.Uint32(buf[:]), nil
}

func (s *SRAM) WriteUint32(addr uint32, v uint32) error {
	return s.access(opWriteSeq, addr, le.AppendUint32(nil, v))
}

func (s *SRAM) ReadInt16(addr uint32) (int16, error) {
	v, err := s.ReadUint16(addr)
	return int16(v), err
}

func (s *SRAM) WriteInt16(addr uint32, v int16) error {
	return s.WriteUint16(addr, uint16(v))
}

func (s *SRAM) ReadInt32(addr uint32) (int32, error) {
	v, err := s.ReadUint32(addr)
	return int32(v), err
}

func (s *SRAM) WriteInt32(addr uint32, v int32) error {
	return s.WriteUint32(addr, uint32(v))
}

// ReadFloat32 reads an IEEE 754 single precision value.
func (s *SRAM) ReadFloat32(addr uint32) (float32, error) {
	v, err := s.ReadUint32(addr)
	return math.Float32frombits(v), err
}

func (s *SRAM) WriteFloat32(addr uint32, v float32) error {
	return s.WriteUint32(addr, math.Float32bits(v))
}

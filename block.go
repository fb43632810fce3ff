package sram

import (
	"fmt"
	"io"
	"math"
)

// PageSize is the size of the window the device wraps around in page mode.
//
// [23LC1024|2.2 Modes of Operation]: page size is 32 bytes
const PageSize = 32

// Element readers and writers transfer a whole slice in one sequential-mode
// transaction. The device increments its address pointer after every byte.

func readSlice[T any](s *SRAM, addr uint32, dst []T, size int, dec func([]byte) T) error {
	buf := make([]byte, len(dst)*size)
	if err := s.access(opReadSeq, addr, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = dec(buf[i*size:])
	}
	return nil
}

func writeSlice[T any](s *SRAM, addr uint32, src []T, size int, enc func([]byte, T) []byte) error {
	buf := make([]byte, 0, len(src)*size)
	for _, v := range src {
		buf = enc(buf, v)
	}
	return s.access(opWriteSeq, addr, buf)
}

func (s *SRAM) ReadUint16s(addr uint32, dst []uint16) error {
	return readSlice(s, addr, dst, 2, le.Uint16)
}

func (s *SRAM) WriteUint16s(addr uint32, src []uint16) error {
	return writeSlice(s, addr, src, 2, le.AppendUint16)
}

func (s *SRAM) ReadUint32s(addr uint32, dst []uint32) error {
	return readSlice(s, addr, dst, 4, le.Uint32)
}

func (s *SRAM) WriteUint32s(addr uint32, src []uint32) error {
	return writeSlice(s, addr, src, 4, le.AppendUint32)
}

func (s *SRAM) ReadInt16s(addr uint32, dst []int16) error {
	return readSlice(s, addr, dst, 2, func(b []byte) int16 {
		return int16(le.Uint16(b))
	})
}

func (s *SRAM) WriteInt16s(addr uint32, src []int16) error {
	return writeSlice(s, addr, src, 2, func(b []byte, v int16) []byte {
		return le.AppendUint16(b, uint16(v))
	})
}

func (s *SRAM) ReadInt32s(addr uint32, dst []int32) error {
	return readSlice(s, addr, dst, 4, func(b []byte) int32 {
		return int32(le.Uint32(b))
	})
}

func (s *SRAM) WriteInt32s(addr uint32, src []int32) error {
	return writeSlice(s, addr, src, 4, func(b []byte, v int32) []byte {
		return le.AppendUint32(b, uint32(v))
	})
}

func (s *SRAM) ReadFloat32s(addr uint32, dst []float32) error {
	return readSlice(s, addr, dst, 4, func(b []byte) float32 {
		return math.Float32frombits(le.Uint32(b))
	})
}

func (s *SRAM) WriteFloat32s(addr uint32, src []float32) error {
	return writeSlice(s, addr, src, 4, func(b []byte, v float32) []byte {
		return le.AppendUint32(b, math.Float32bits(v))
	})
}

// ReadBlock reads n bytes starting at addr in sequential mode.
func (s *SRAM) ReadBlock(addr uint32, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrAddressRange, n)
	}
	out := make([]byte, n)
	if err := s.access(opReadSeq, addr, out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteBlock writes data starting at addr in sequential mode.
func (s *SRAM) WriteBlock(addr uint32, data []byte) error {
	return s.access(opWriteSeq, addr, data)
}

// ReadPage reads one page in page mode. addr may point anywhere inside the
// page; the device wraps to the start of the page after its last byte, so
// page[i] comes from page offset (addr+i)%PageSize.
func (s *SRAM) ReadPage(addr uint32) (page [PageSize]byte, err error) {
	if err = s.checkRange(addr, 1); err != nil {
		return
	}
	err = s.xfer(opReadPage, addr, page[:])
	return
}

// WritePage writes one page in page mode, wrapping like ReadPage.
func (s *SRAM) WritePage(addr uint32, page [PageSize]byte) error {
	if err := s.checkRange(addr, 1); err != nil {
		return err
	}
	return s.xfer(opWritePage, addr, page[:])
}

// ReadAt implements io.ReaderAt. Reads stopping at the end of the device
// return io.EOF.
func (s *SRAM) ReadAt(p []byte, off int64) (n int, err error) {
	if s.conn == nil {
		return 0, ErrNotInitialized
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrAddressRange, off)
	}
	if off >= s.Size() {
		return 0, io.EOF
	}
	n = int(min(int64(len(p)), s.Size()-off))
	if err = s.access(opReadSeq, uint32(off), p[:n]); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. Writes that do not fit entirely are
// rejected.
func (s *SRAM) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off > math.MaxUint32 {
		return 0, fmt.Errorf("%w: offset %d", ErrAddressRange, off)
	}
	if err = s.access(opWriteSeq, uint32(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

var (
	_ io.ReaderAt = (*SRAM)(nil)
	_ io.WriterAt = (*SRAM)(nil)
)

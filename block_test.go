package sram

import (
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blockLengths = []int{0, 1, 32, 1000}

func TestBlockRoundTrip(t *testing.T) {
	for _, kbit := range []int{256, 1024} {
		for _, n := range blockLengths {
			t.Run(fmt.Sprintf("%dKb/n=%d", kbit, n), func(t *testing.T) {
				s, _ := newTestSRAM(t, testConfig(kbit))
				const addr = 0x123

				data := make([]byte, n)
				for i := range data {
					data[i] = byte(i*31 + 7)
				}
				require.NoError(t, s.WriteBlock(addr, data))
				got, err := s.ReadBlock(addr, n)
				require.NoError(t, err)
				assert.Equal(t, data, got)

				u16 := make([]uint16, n)
				for i := range u16 {
					u16[i] = uint16(i * 257)
				}
				require.NoError(t, s.WriteUint16s(addr, u16))
				gotU16 := make([]uint16, n)
				require.NoError(t, s.ReadUint16s(addr, gotU16))
				assert.Equal(t, u16, gotU16)

				u32 := make([]uint32, n)
				for i := range u32 {
					u32[i] = uint32(i) * 0x01010101
				}
				require.NoError(t, s.WriteUint32s(addr, u32))
				gotU32 := make([]uint32, n)
				require.NoError(t, s.ReadUint32s(addr, gotU32))
				assert.Equal(t, u32, gotU32)

				i16 := make([]int16, n)
				for i := range i16 {
					i16[i] = int16(-i * 3)
				}
				require.NoError(t, s.WriteInt16s(addr, i16))
				gotI16 := make([]int16, n)
				require.NoError(t, s.ReadInt16s(addr, gotI16))
				assert.Equal(t, i16, gotI16)

				i32 := make([]int32, n)
				for i := range i32 {
					i32[i] = int32(-i * 100003)
				}
				require.NoError(t, s.WriteInt32s(addr, i32))
				gotI32 := make([]int32, n)
				require.NoError(t, s.ReadInt32s(addr, gotI32))
				assert.Equal(t, i32, gotI32)

				f32 := make([]float32, n)
				for i := range f32 {
					f32[i] = float32(i) / 3
				}
				require.NoError(t, s.WriteFloat32s(addr, f32))
				gotF32 := make([]float32, n)
				require.NoError(t, s.ReadFloat32s(addr, gotF32))
				assert.Equal(t, f32, gotF32)
			})
		}
	}
}

func TestBlockSingleTransaction(t *testing.T) {
	s, chip := newTestSRAM(t, testConfig(256))

	require.NoError(t, s.WriteUint32s(0x40, []uint32{1, 2, 3}))
	frames := chip.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{sramCmdWriteModeRegister, byte(ModeSequential)}, frames[0])
	assert.Equal(t, []byte{
		sramCmdWrite, 0x00, 0x40,
		1, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0,
	}, frames[1])
}

func TestBlockZeroLength(t *testing.T) {
	s, chip := newTestSRAM(t, testConfig(256))

	require.NoError(t, s.WriteBlock(0, nil))
	got, err := s.ReadBlock(0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, s.ReadFloat32s(0, nil))
	assert.Empty(t, chip.Trace(), "zero length blocks must not touch the bus")

	_, err = s.ReadBlock(0, -1)
	assert.ErrorIs(t, err, ErrAddressRange)
}

func TestScenarioBlock(t *testing.T) {
	s, _ := newTestSRAM(t, testConfig(256))

	require.NoError(t, s.WriteBlock(0, []byte{1, 2, 3, 4, 5}))
	got, err := s.ReadBlock(0, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, got)
}

func TestPageWrap(t *testing.T) {
	s, chip := newTestSRAM(t, testConfig(256))
	const addr = 0x45 // page 0x40, offset 5

	var page [PageSize]byte
	for i := range page {
		page[i] = byte(0xA0 + i)
	}
	require.NoError(t, s.WritePage(addr, page))

	got, err := s.ReadPage(addr)
	require.NoError(t, err)
	assert.Equal(t, page, got)

	mem := chip.Mem()
	for i := range page {
		assert.Equal(t, page[i], mem[0x40+(5+i)%PageSize], "page byte %d", i)
	}
	assert.Zero(t, mem[0x60], "page write spilled into the next page")
	assert.Zero(t, mem[0x3F], "page write spilled into the previous page")

	// the same bytes read sequentially from the page start are rotated
	seq, err := s.ReadBlock(0x40, PageSize)
	require.NoError(t, err)
	assert.Equal(t, page[PageSize-5:], seq[:5])
	assert.Equal(t, page[:PageSize-5], seq[5:])
}

func TestPageFraming(t *testing.T) {
	s, chip := newTestSRAM(t, testConfig(1024))

	require.NoError(t, s.WritePage(0x10020, [PageSize]byte{0: 0x11, 31: 0x22}))
	frames := chip.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, []byte{sramCmdWriteModeRegister, byte(ModePage)}, frames[0])
	assert.Equal(t, []byte{sramCmdWrite, 0x01, 0x00, 0x20}, frames[1][:4])
	assert.Len(t, frames[1], 4+PageSize)
}

func TestReaderAtWriterAt(t *testing.T) {
	s, _ := newTestSRAM(t, testConfig(64))
	size := s.Size()
	require.EqualValues(t, 8192, size)

	n, err := s.WriteAt([]byte("hello, sram"), 100)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	r := io.NewSectionReader(s, 100, 11)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello, sram", string(got))

	// reads are cut at the end of the device
	buf := make([]byte, 16)
	n, err = s.ReadAt(buf, size-4)
	assert.Equal(t, 4, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = s.ReadAt(buf, size)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = s.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrAddressRange)

	_, err = s.WriteAt(buf, size-4)
	assert.ErrorIs(t, err, ErrAddressRange)
	_, err = s.WriteAt(buf, math.MaxUint32+1)
	assert.ErrorIs(t, err, ErrAddressRange)
}

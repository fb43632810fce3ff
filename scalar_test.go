package sram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	for _, kbit := range []int{256, 1024} {
		s, _ := newTestSRAM(t, testConfig(kbit))

		for _, v := range []uint8{0, 1, 0x7F, 0x80, 0xAB, 0xFF} {
			require.NoError(t, s.WriteUint8(0x101, v))
			got, err := s.ReadUint8(0x101)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
		for _, v := range []uint16{0, 1, 0x00FF, 0xFF00, 0xBEEF, math.MaxUint16} {
			require.NoError(t, s.WriteUint16(0x202, v))
			got, err := s.ReadUint16(0x202)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
		for _, v := range []uint32{0, 1, 0x11223344, 0xDEADBEEF, math.MaxUint32} {
			require.NoError(t, s.WriteUint32(0x303, v))
			got, err := s.ReadUint32(0x303)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
		for _, v := range []int16{0, -1, 1, math.MinInt16, math.MaxInt16} {
			require.NoError(t, s.WriteInt16(0x404, v))
			got, err := s.ReadInt16(0x404)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
		for _, v := range []int32{0, -1, 1, math.MinInt32, math.MaxInt32, -123456789} {
			require.NoError(t, s.WriteInt32(0x505, v))
			got, err := s.ReadInt32(0x505)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
		for _, bits := range []uint32{
			0x00000000, 0x80000000, // +0, -0
			0x3F800000,             // 1
			0xC0490FDB,             // -pi
			0x7F800000, 0xFF800000, // +inf, -inf
			0x7FC00001, // NaN with payload
			0x00000001, // smallest subnormal
		} {
			require.NoError(t, s.WriteFloat32(0x606, math.Float32frombits(bits)))
			got, err := s.ReadFloat32(0x606)
			require.NoError(t, err)
			assert.Equal(t, bits, math.Float32bits(got), "float bits 0x%08X", bits)
		}
	}
}

func TestScalarByteOrder(t *testing.T) {
	s, chip := newTestSRAM(t, testConfig(256))

	require.NoError(t, s.WriteUint32(0, 0x11223344))
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, chip.Mem()[0:4])

	require.NoError(t, s.WriteUint16(8, 0xA1B2))
	assert.Equal(t, []byte{0xB2, 0xA1}, chip.Mem()[8:10])

	require.NoError(t, s.WriteFloat32(12, 1))
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, chip.Mem()[12:16])

	chip.Mem()[20] = 0xFE
	chip.Mem()[21] = 0xFF
	v, err := s.ReadInt16(20)
	require.NoError(t, err)
	assert.Equal(t, int16(-2), v)
}

func TestScenarioByte(t *testing.T) {
	s, _ := newTestSRAM(t, testConfig(256))

	require.NoError(t, s.WriteUint8(0x10, 0xAB))
	v, err := s.ReadUint8(0x10)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), v)
}

func TestScenarioInt32(t *testing.T) {
	s, chip := newTestSRAM(t, testConfig(256))

	require.NoError(t, s.WriteInt32(0x00, -1))
	v, err := s.ReadInt32(0x00)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, chip.Mem()[0:4])
}

func TestScalarsDoNotOverlap(t *testing.T) {
	s, _ := newTestSRAM(t, testConfig(1024))

	require.NoError(t, s.WriteUint32(0x1000, 0xAAAAAAAA))
	require.NoError(t, s.WriteUint16(0x1004, 0x5555))
	require.NoError(t, s.WriteUint8(0x1006, 0x77))

	v32, err := s.ReadUint32(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAAAAAAAA), v32)
	v16, err := s.ReadUint16(0x1004)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5555), v16)
	v8, err := s.ReadUint8(0x1006)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x77), v8)
}

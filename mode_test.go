package sram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

func TestModeRegisterString(t *testing.T) {
	tests := []struct {
		mr   ModeRegister
		want string
	}{
		{ModeByte, "00000000 BYTE"},
		{ModePage, "10000000 PAGE"},
		{ModeSequential, "01000000 SEQUENTIAL"},
		{ModeSequential | ModeHold, "01000001 SEQUENTIAL,HOLD"},
		{0xC0, "11000000 RESERVED"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mr.String())
	}
}

func TestModeRegisterBits(t *testing.T) {
	mr := ModePage | ModeHold
	assert.Equal(t, ModePage, mr.Operation())
	assert.True(t, mr.Hold())
	assert.False(t, ModeByte.Hold())
}

func TestKnownParts(t *testing.T) {
	assert.Equal(t, "Microchip 23LC1024 1Mb", PartName(1024))
	assert.Empty(t, PartName(2048))

	assert.Equal(t, 20*physic.MegaHertz, maxClock(512))
	// unknown parts get the slowest known clock
	assert.Equal(t, 20*physic.MegaHertz, maxClock(2048))
}

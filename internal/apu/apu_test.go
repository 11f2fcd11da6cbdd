package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func powerOn(a *APU) {
	a.WriteRegister(NR52, 0x80)
}

func TestSquareChannelTriggerSetsLengthAndVolume(t *testing.T) {
	a := New(44100)
	powerOn(a)
	a.WriteRegister(NR51, 0x11) // ch1 to both channels
	a.WriteRegister(NR50, 0x77)

	a.WriteRegister(NR11, 0x80) // duty 50%, length load 0
	a.WriteRegister(NR12, 0xF0) // volume 15, no envelope
	a.WriteRegister(NR13, 0x00)
	a.WriteRegister(NR14, 0x87) // trigger, freq high bits 7

	assert.True(t, a.ch1.enabled)
	assert.Equal(t, uint8(15), a.ch1.currentVolume)
	assert.Equal(t, uint(64), a.ch1.lengthCounter)
}

func TestLengthCounterDisablesChannelAtZero(t *testing.T) {
	a := New(44100)
	powerOn(a)
	a.WriteRegister(NR21, 0x3F) // length load = 63 -> counter = 1
	a.WriteRegister(NR22, 0xF0)
	a.WriteRegister(NR24, 0xC0) // trigger + length-enable

	require.True(t, a.ch2.enabled)
	for i := 0; i < 64; i++ {
		a.stepSequencer() // length decrements on the even steps, so well within 64 calls
	}
	assert.False(t, a.ch2.enabled)
}

func TestPowerOffClearsRegistersButNotWaveRAM(t *testing.T) {
	a := New(44100)
	powerOn(a)
	a.WriteRegister(0xFF30, 0xAB)
	a.WriteRegister(NR11, 0x80)

	a.WriteRegister(NR52, 0x00)
	assert.False(t, a.enabled)
	assert.Equal(t, uint8(0), a.ch1.duty)
	assert.Equal(t, uint8(0xAB), a.ch3.ram[0])
}

func TestNR52ReportsChannelEnableBits(t *testing.T) {
	a := New(44100)
	powerOn(a)
	a.WriteRegister(NR12, 0xF0)
	a.WriteRegister(NR14, 0x80) // trigger ch1

	v := a.ReadRegister(NR52)
	assert.Equal(t, uint8(0x01), v&0x01)
}

func TestMixSampleStaysInUnitRange(t *testing.T) {
	a := New(44100)
	powerOn(a)
	a.WriteRegister(NR51, 0xFF)
	a.WriteRegister(NR50, 0x77)
	a.WriteRegister(NR12, 0xF0)
	a.WriteRegister(NR14, 0x80)
	a.WriteRegister(NR22, 0xF0)
	a.WriteRegister(NR24, 0x80)

	for i := 0; i < 1000; i++ {
		a.Tick(4)
	}
	out := make([]float32, 256)
	n := a.PullSamples(out)
	require.Greater(t, n, 0)
	for i := 0; i < n*2; i++ {
		assert.LessOrEqual(t, out[i], float32(1.0))
		assert.GreaterOrEqual(t, out[i], float32(-1.0))
	}
}

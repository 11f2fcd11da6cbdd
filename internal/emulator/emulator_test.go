package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/16meyrat/gbcemu-go/internal/joypad"
)

// blankROM returns a minimal ROM-only cartridge image large enough to
// pass header parsing, with an infinite loop at the entry point so
// RunFrame has something safe to execute.
func blankROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x100] = 0x18 // JR -2 (jump to self)
	rom[0x101] = 0xFE
	rom[0x147] = 0x00 // ROM only
	rom[0x148] = 0
	rom[0x149] = 0
	copy(rom[0x134:0x144], "TESTROM")
	return rom
}

func TestNewWiresAllComponents(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0100), e.CPU.PC)
	assert.Equal(t, "TESTROM", e.Cart.Header.Title)
}

func TestStepAdvancesPC(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	cycles := e.Step()
	assert.Equal(t, 12, cycles) // JR r8 always taken
	assert.Equal(t, uint16(0x0100), e.CPU.PC)
}

func TestRunFrameProducesAFullFramebuffer(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	e.RunFrame()
	assert.Len(t, e.PPU.Framebuffer(), 160*144*3)
}

func TestFrameHashIsDeterministic(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	e.RunFrame()
	h1 := e.FrameHash()
	e2, _ := New(blankROM(), 44100, nil)
	e2.RunFrame()
	h2 := e2.FrameHash()
	assert.Equal(t, h1, h2)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		e.Step()
	}
	saved := e.Save()

	e2, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	e2.Load(saved)

	assert.Equal(t, e.CPU.PC, e2.CPU.PC)
	assert.Equal(t, e.CPU.SP, e2.CPU.SP)
	assert.Equal(t, e.PPU.Framebuffer(), e2.PPU.Framebuffer())
}

func TestCloseReturnsNilWithoutBattery(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	assert.Nil(t, e.Close())
}

func TestCloseFlushesBatteryBackedRAM(t *testing.T) {
	rom := blankROM()
	rom[0x147] = 0x03 // MBC1+RAM+Battery
	rom[0x149] = 0x02 // 8KB RAM
	e, err := New(rom, 44100, nil)
	require.NoError(t, err)

	e.Bus.Write(0x0000, 0x0A) // enable external RAM
	e.Bus.Write(0xA000, 0x42)

	battery := e.Close()
	require.NotNil(t, battery)

	e2, err := New(rom, 44100, nil)
	require.NoError(t, err)
	require.NoError(t, e2.Cart.LoadSave(battery))
	e2.Bus.Write(0x0000, 0x0A)
	assert.Equal(t, uint8(0x42), e2.Bus.Read(0xA000))
}

func TestApplyInputRoutesToJoypad(t *testing.T) {
	e, err := New(blankROM(), 44100, nil)
	require.NoError(t, err)
	e.ApplyInput([]joypad.Edge{{Button: joypad.Start, Pressed: true}})
	e.Bus.Write(0xFF00, 0x10) // select action row
	assert.Equal(t, uint8(0xD7), e.Bus.Read(0xFF00))
}

package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/16meyrat/gbcemu-go/internal/interrupts"
)

func TestFrameTakes70224Cycles(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)

	// From power-on the first VBlank edge comes after 144 visible lines;
	// a full frame is measured from that edge to the next one.
	for !p.Tick(4) {
	}

	total := 0
	for {
		done := p.Tick(4)
		total += 4
		if done {
			break
		}
	}
	assert.Equal(t, 70224, total)
}

func TestLYAdvancesThroughVBlank(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)

	for line := 0; line < ScreenHeight; line++ {
		p.Tick(lineCycles)
		assert.Equal(t, uint8(line+1)%totalLines, p.ly)
	}
	assert.Equal(t, uint8(ScreenHeight), p.ly)
}

func TestVBlankInterruptRequestedOnce(t *testing.T) {
	irq := interrupts.NewController()
	irq.Enable = 1 << interrupts.VBlank
	p := New(irq)

	for i := 0; i < ScreenHeight; i++ {
		p.Tick(lineCycles)
	}
	assert.True(t, irq.Pending())
	flag, vector, ok := irq.Next()
	require.True(t, ok)
	assert.Equal(t, interrupts.VBlank, flag)
	assert.Equal(t, uint16(0x0040), vector)
}

func TestLYCCoincidenceRaisesSTATInterrupt(t *testing.T) {
	irq := interrupts.NewController()
	irq.Enable = 1 << interrupts.LCDStat
	p := New(irq)
	p.WriteRegister(0xFF45, 5) // LYC = 5
	p.WriteRegister(0xFF41, 0x40) // enable coincidence interrupt

	for i := 0; i < 5; i++ {
		p.Tick(lineCycles)
	}
	assert.True(t, irq.Pending())
}

func TestBackgroundTileRendersExpectedColumn(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.WriteRegister(0xFF40, 0x91) // LCD+BG enabled, unsigned tile data, map at 9800
	p.WriteRegister(0xFF47, 0xE4) // identity BGP (0,1,2,3 -> 0,1,2,3)

	// Tile 1 at 0x8010: a fully solid colour-3 tile (both bitplanes set).
	for row := 0; row < 8; row++ {
		p.WriteVRAM(0x8010+uint16(row)*2, 0xFF)
		p.WriteVRAM(0x8011+uint16(row)*2, 0xFF)
	}
	p.WriteVRAM(0x9800, 1) // tile map entry (0,0) -> tile 1

	p.Tick(oamScanCycles)
	p.Tick(renderCycles)

	px := p.Framebuffer()[0:3]
	assert.Equal(t, []byte{0x00, 0x00, 0x00}, px) // colour index 3 -> black
}

func TestSpriteHiddenBehindBackgroundColourOne(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.WriteRegister(0xFF40, 0x93) // LCD+BG+sprites enabled
	p.WriteRegister(0xFF47, 0xE4)
	p.WriteRegister(0xFF48, 0xE4)

	// Background tile 0 at 0x8000: solid colour 1.
	for row := 0; row < 8; row++ {
		p.WriteVRAM(0x8000+uint16(row)*2, 0xFF)
		p.WriteVRAM(0x8001+uint16(row)*2, 0x00)
	}

	// Sprite tile 0 at 0x8000 reused; place sprite at (8,16) with
	// OBJ-behind-BG priority set.
	p.WriteOAM(0xFE00, 16) // Y
	p.WriteOAM(0xFE01, 8)  // X
	p.WriteOAM(0xFE02, 0)  // tile
	p.WriteOAM(0xFE03, 0x80)

	p.Tick(oamScanCycles)
	p.Tick(renderCycles)

	px := p.Framebuffer()[0:3]
	assert.Equal(t, []byte{0xCC, 0xCC, 0xCC}, px) // BG colour 1 wins
}

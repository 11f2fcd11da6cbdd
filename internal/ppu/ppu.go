// Package ppu implements the picture processing unit: VRAM/OAM storage,
// the four-phase scanline state machine, and the background/window/sprite
// compositor that fills a 160x144 RGB framebuffer.
package ppu

import (
	"fmt"

	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/16meyrat/gbcemu-go/internal/ppu/lcd"
	"github.com/16meyrat/gbcemu-go/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	oamScanCycles  = 80
	renderCycles   = 172
	hblankCycles   = 204
	lineCycles     = oamScanCycles + renderCycles + hblankCycles // 456
	vblankLines    = 10
	totalLines     = ScreenHeight + vblankLines
	maxSpritesLine = 10
)

// PPU owns video RAM, OAM, the LCD registers, and the framebuffer. It is
// driven exclusively by Tick, called with the T-cycle count of each CPU
// instruction; it does not know about the bus or the CPU.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	LCDC *lcd.Controller
	STAT *lcd.Status

	scy, scx uint8
	ly       uint8
	lyc      uint8
	wy, wx   uint8
	bgp      uint8
	obp0     uint8
	obp1     uint8

	dot        int
	windowLine int

	bgLine      [ScreenWidth]uint8 // pre-palette colour index, for sprite priority
	framebuffer [ScreenWidth * ScreenHeight * 3]byte

	lastSTATLine bool

	irq *interrupts.Controller
}

// New returns a PPU wired to irq for VBlank/STAT interrupt requests.
func New(irq *interrupts.Controller) *PPU {
	return &PPU{
		LCDC: lcd.NewController(),
		STAT: lcd.NewStatus(),
		irq:  irq,
	}
}

// Framebuffer returns the current 160x144 RGB888 frame, row-major,
// 3 bytes per pixel. The slice aliases the PPU's internal buffer; once
// the next frame starts, each scanline is overwritten as it is drawn.
func (p *PPU) Framebuffer() []byte {
	return p.framebuffer[:]
}

// ReadVRAM reads a byte at a 0x8000-0x9FFF bus address.
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	return p.vram[addr-0x8000]
}

// WriteVRAM writes a byte at a 0x8000-0x9FFF bus address.
func (p *PPU) WriteVRAM(addr uint16, v uint8) {
	p.vram[addr-0x8000] = v
}

// ReadOAM reads a byte at a 0xFE00-0xFE9F bus address.
func (p *PPU) ReadOAM(addr uint16) uint8 {
	return p.oam[addr-0xFE00]
}

// WriteOAM writes a byte at a 0xFE00-0xFE9F bus address.
func (p *PPU) WriteOAM(addr uint16, v uint8) {
	p.oam[addr-0xFE00] = v
}

// ReadRegister reads one of the 0xFF40-0xFF4B LCD registers handled
// directly by the PPU (DMA at 0xFF46 is routed through the bus instead).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.LCDC.Read()
	case 0xFF41:
		return p.STAT.Read()
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	panic(fmt.Sprintf("ppu: invalid register read 0x%04X", addr))
}

// WriteRegister writes one of the 0xFF40-0xFF4B LCD registers.
func (p *PPU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case 0xFF40:
		wasEnabled := p.LCDC.Enabled
		p.LCDC.Write(v)
		if !wasEnabled && p.LCDC.Enabled {
			p.ly = 0
			p.dot = 0
			p.windowLine = 0
			p.STAT.Mode = lcd.OAMScan
			p.updateCoincidence()
		}
	case 0xFF41:
		p.STAT.Write(v)
		p.evaluateSTAT()
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		// LY is read-only.
	case 0xFF45:
		p.lyc = v
		p.updateCoincidence()
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	default:
		panic(fmt.Sprintf("ppu: invalid register write 0x%04X", addr))
	}
}

// Tick advances the PPU by tCycles T-cycles and reports whether a
// VBlank interrupt was raised (i.e. a full frame just completed).
func (p *PPU) Tick(tCycles int) bool {
	if !p.LCDC.Enabled {
		return false
	}

	vblankRaised := false
	p.dot += tCycles
	for {
		switch p.STAT.Mode {
		case lcd.OAMScan:
			if p.dot < oamScanCycles {
				return vblankRaised
			}
			p.dot -= oamScanCycles
			p.STAT.Mode = lcd.Rendering
			p.evaluateSTAT()

		case lcd.Rendering:
			if p.dot < renderCycles {
				return vblankRaised
			}
			p.dot -= renderCycles
			p.renderScanline()
			p.STAT.Mode = lcd.HBlank
			p.evaluateSTAT()

		case lcd.HBlank:
			if p.dot < hblankCycles {
				return vblankRaised
			}
			p.dot -= hblankCycles
			p.ly++
			p.updateCoincidence()
			if int(p.ly) == ScreenHeight {
				p.STAT.Mode = lcd.VBlank
				p.irq.Request(interrupts.VBlank)
				vblankRaised = true
			} else {
				p.STAT.Mode = lcd.OAMScan
			}
			p.evaluateSTAT()

		case lcd.VBlank:
			if p.dot < lineCycles {
				return vblankRaised
			}
			p.dot -= lineCycles
			p.ly++
			p.updateCoincidence()
			if int(p.ly) >= totalLines {
				p.ly = 0
				p.windowLine = 0
				p.STAT.Mode = lcd.OAMScan
				p.updateCoincidence()
			}
			p.evaluateSTAT()
		}
	}
}

func (p *PPU) updateCoincidence() {
	p.STAT.Coincidence = p.ly == p.lyc
}

// evaluateSTAT requests an LCDStat interrupt on the rising edge of the
// combined, level-triggered STAT interrupt line.
func (p *PPU) evaluateSTAT() {
	line := p.STAT.InterruptLine()
	if line && !p.lastSTATLine {
		p.irq.Request(interrupts.LCDStat)
	}
	p.lastSTATLine = line
}

// Save writes the PPU's full state, including VRAM, OAM and the framebuffer.
func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[:])
	s.WriteData(p.oam[:])
	s.Write8(p.LCDC.Read())
	s.Write8(p.STAT.Read())
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write32(uint32(p.dot))
	s.Write32(uint32(p.windowLine))
	s.WriteBool(p.lastSTATLine)
	s.WriteData(p.framebuffer[:])
}

// Load restores state written by Save.
func (p *PPU) Load(s *types.State) {
	s.ReadData(p.vram[:])
	s.ReadData(p.oam[:])
	p.LCDC.Write(s.Read8())
	stat := s.Read8()
	p.STAT.Write(stat)
	p.STAT.Mode = lcd.Mode(stat & 0x03)
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	p.dot = int(s.Read32())
	p.windowLine = int(s.Read32())
	p.lastSTATLine = s.ReadBool()
	s.ReadData(p.framebuffer[:])
	p.updateCoincidence()
}

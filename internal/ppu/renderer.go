package ppu

import (
	"sort"

	"github.com/16meyrat/gbcemu-go/internal/ppu/palette"
)

// tilePixel returns the 2-bit colour index of pixel (px, py) within the
// 8x8 (or 8x16, for sprites passing a doubled py) tile whose data starts
// at addr in VRAM.
func (p *PPU) tilePixel(addr uint16, px, py uint8) uint8 {
	rowAddr := addr + uint16(py)*2
	b1 := p.vram[rowAddr-0x8000]
	b2 := p.vram[rowAddr+1-0x8000]
	bit := 7 - px
	low := (b1 >> bit) & 1
	high := (b2 >> bit) & 1
	return low | high<<1
}

// bgTileDataAddr resolves a BG/window tile number to its tile-data
// address, honouring LCDC's signed/unsigned addressing mode.
func (p *PPU) bgTileDataAddr(tileNum uint8) uint16 {
	if p.LCDC.UsingSignedTileData() {
		return uint16(int32(0x9000) + int32(int8(tileNum))*16)
	}
	return p.LCDC.TileDataAddress + uint16(tileNum)*16
}

// renderScanline composites background, window, and sprites for the
// current line (p.ly) into the framebuffer.
func (p *PPU) renderScanline() {
	if int(p.ly) >= ScreenHeight {
		return
	}

	if p.LCDC.BackgroundEnabled {
		p.renderBackground()
		p.renderWindow()
	} else {
		for x := range p.bgLine {
			p.bgLine[x] = 0
			p.setPixel(x, [3]uint8{0xFF, 0xFF, 0xFF})
		}
	}

	if p.LCDC.SpriteEnabled {
		p.renderSprites()
	}
}

func (p *PPU) renderBackground() {
	y := p.ly + p.scy
	tileRow := uint16(y/8) * 32
	mapBase := p.LCDC.BackgroundTileMapAddress

	for x := 0; x < ScreenWidth; x++ {
		scrolledX := uint8(x) + p.scx
		tileCol := uint16(scrolledX / 8)
		tileNum := p.vram[mapBase+tileRow+tileCol-0x8000]
		addr := p.bgTileDataAddr(tileNum)
		idx := p.tilePixel(addr, scrolledX%8, y%8)

		p.bgLine[x] = idx
		p.setPixel(x, palette.Apply(p.bgp, idx))
	}
}

func (p *PPU) renderWindow() {
	if !p.LCDC.WindowEnabled || p.ly < p.wy {
		return
	}
	wx := int(p.wx) - 7
	if wx >= ScreenWidth {
		return
	}

	y := uint8(p.windowLine)
	tileRow := uint16(y/8) * 32
	mapBase := p.LCDC.WindowTileMapAddress
	drew := false

	for x := 0; x < ScreenWidth; x++ {
		if x < wx {
			continue
		}
		wPix := uint8(x - wx)
		tileCol := uint16(wPix / 8)
		tileNum := p.vram[mapBase+tileRow+tileCol-0x8000]
		addr := p.bgTileDataAddr(tileNum)
		idx := p.tilePixel(addr, wPix%8, y%8)

		p.bgLine[x] = idx
		p.setPixel(x, palette.Apply(p.bgp, idx))
		drew = true
	}
	if drew {
		p.windowLine++
	}
}

type spriteEntry struct {
	oamIndex int
	x        int
	y        int
	tile     uint8
	flags    uint8
}

// visibleSprites returns up to maxSpritesLine OAM entries intersecting
// the current scanline, ordered lowest-X-first with OAM index as the
// tiebreak (the DMG priority order), via a stable sort so entries that
// compare equal keep the scan order spec requires.
func (p *PPU) visibleSprites() []spriteEntry {
	height := int(p.LCDC.SpriteHeight)
	var found []spriteEntry
	for i := 0; i < 40 && len(found) < maxSpritesLine; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		if int(p.ly) < y || int(p.ly) >= y+height {
			continue
		}
		found = append(found, spriteEntry{
			oamIndex: i,
			x:        int(p.oam[base+1]) - 8,
			y:        y,
			tile:     p.oam[base+2],
			flags:    p.oam[base+3],
		})
	}
	sort.SliceStable(found, func(a, b int) bool {
		return found[a].x < found[b].x
	})
	return found
}

func (p *PPU) renderSprites() {
	sprites := p.visibleSprites()
	height := int(p.LCDC.SpriteHeight)

	// Draw lowest priority first so higher-priority sprites (lower X,
	// then lower OAM index) overwrite them.
	for i := len(sprites) - 1; i >= 0; i-- {
		s := sprites[i]
		behindBG := s.flags&0x80 != 0
		flipY := s.flags&0x40 != 0
		flipX := s.flags&0x20 != 0
		useOBP1 := s.flags&0x10 != 0

		row := int(p.ly) - s.y
		if flipY {
			row = height - 1 - row
		}

		tile := s.tile
		if height == 16 {
			tile &^= 0x01
		}
		addr := 0x8000 + uint16(tile)*16

		for px := 0; px < 8; px++ {
			x := s.x + px
			if x < 0 || x >= ScreenWidth {
				continue
			}
			col := px
			if flipX {
				col = 7 - px
			}
			idx := p.tilePixel(addr, uint8(col), uint8(row))
			if idx == 0 {
				continue // transparent
			}
			if behindBG && p.bgLine[x] != 0 {
				continue
			}
			obp := p.obp0
			if useOBP1 {
				obp = p.obp1
			}
			p.setPixel(x, palette.Apply(obp, idx))
		}
	}
}

func (p *PPU) setPixel(x int, rgb [3]uint8) {
	off := (int(p.ly)*ScreenWidth + x) * 3
	p.framebuffer[off] = rgb[0]
	p.framebuffer[off+1] = rgb[1]
	p.framebuffer[off+2] = rgb[2]
}

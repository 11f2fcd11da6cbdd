// Package lcd holds the two LCD control registers (LCDC, STAT) as typed
// structs rather than raw bytes, so the rest of the PPU can ask
// "is the window enabled" instead of re-decoding bit 5 every time.
package lcd

import "github.com/16meyrat/gbcemu-go/pkg/bits"

// Controller is the LCD Control register (LCDC, 0xFF40):
//
//	Bit 7 - LCD Enable                    (0=Off, 1=On)
//	Bit 6 - Window Tile Map Select         (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Enable                  (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select    (0=8800-97FF signed, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Select              (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ Size                        (0=8x8, 1=8x16)
//	Bit 1 - OBJ Enable                      (0=Off, 1=On)
//	Bit 0 - BG/Window Enable                (0=Off, 1=On)
type Controller struct {
	Enabled                  bool
	WindowTileMapAddress     uint16
	WindowEnabled            bool
	TileDataAddress          uint16
	BackgroundTileMapAddress uint16
	SpriteHeight             uint8
	SpriteEnabled            bool
	BackgroundEnabled        bool
}

// NewController returns the LCDC register in its post-boot-ROM state.
func NewController() *Controller {
	return &Controller{
		WindowTileMapAddress:     0x9800,
		BackgroundTileMapAddress: 0x9800,
		TileDataAddress:          0x8000,
		SpriteHeight:             8,
		BackgroundEnabled:        true,
		SpriteEnabled:            true,
		WindowEnabled:            true,
		Enabled:                  true,
	}
}

// Write decodes a byte written to 0xFF40 into the controller's fields.
func (c *Controller) Write(value uint8) {
	c.Enabled = bits.Test(value, 7)
	if bits.Test(value, 6) {
		c.WindowTileMapAddress = 0x9C00
	} else {
		c.WindowTileMapAddress = 0x9800
	}
	c.WindowEnabled = bits.Test(value, 5)
	if bits.Test(value, 4) {
		c.TileDataAddress = 0x8000
	} else {
		c.TileDataAddress = 0x8800
	}
	if bits.Test(value, 3) {
		c.BackgroundTileMapAddress = 0x9C00
	} else {
		c.BackgroundTileMapAddress = 0x9800
	}
	c.SpriteHeight = 8 + bits.Val(value, 2)*8
	c.SpriteEnabled = bits.Test(value, 1)
	c.BackgroundEnabled = bits.Test(value, 0)
}

// Read re-encodes the controller's fields back into the LCDC byte.
func (c *Controller) Read() uint8 {
	var v uint8
	v = bits.SetIf(v, 7, c.Enabled)
	v = bits.SetIf(v, 6, c.WindowTileMapAddress == 0x9C00)
	v = bits.SetIf(v, 5, c.WindowEnabled)
	v = bits.SetIf(v, 4, c.TileDataAddress == 0x8000)
	v = bits.SetIf(v, 3, c.BackgroundTileMapAddress == 0x9C00)
	v = bits.SetIf(v, 2, c.SpriteHeight == 16)
	v = bits.SetIf(v, 1, c.SpriteEnabled)
	v = bits.SetIf(v, 0, c.BackgroundEnabled)
	return v
}

// UsingSignedTileData reports whether BG/window tile numbers index into
// the 0x8800-0x97FF signed tile block rather than 0x8000-0x8FFF.
func (c *Controller) UsingSignedTileData() bool {
	return c.TileDataAddress == 0x8800
}

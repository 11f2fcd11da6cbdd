// Package interrupts implements the Game Boy's interrupt controller: the
// IE/IF register pair and the fixed priority order the CPU dispatches
// them in.
package interrupts

import "github.com/16meyrat/gbcemu-go/internal/types"

// Flag identifies one of the five interrupt sources. Values double as the
// bit position within IE/IF.
type Flag = uint8

const (
	VBlank  Flag = types.FlagVBlank
	LCDStat Flag = types.FlagLCDStat
	Timer   Flag = types.FlagTimer
	Serial  Flag = types.FlagSerial
	Joypad  Flag = types.FlagJoypad
)

// vectors holds the jump target for each Flag, in the priority order the
// CPU must check them: VBlank first, Joypad last.
var vectors = [5]uint16{
	VBlank:  0x0040,
	LCDStat: 0x0048,
	Timer:   0x0050,
	Serial:  0x0058,
	Joypad:  0x0060,
}

// Controller owns the IE (0xFFFF) and IF (0xFF0F) registers.
type Controller struct {
	Enable uint8
	Flag   uint8
}

// NewController returns a Controller with both registers cleared.
func NewController() *Controller {
	return &Controller{}
}

// Request sets the IF bit for flag, marking that source pending.
func (c *Controller) Request(flag Flag) {
	c.Flag |= 1 << flag
}

// Clear clears the IF bit for flag.
func (c *Controller) Clear(flag Flag) {
	c.Flag &^= 1 << flag
}

// Pending reports whether any enabled interrupt is currently requested.
func (c *Controller) Pending() bool {
	return c.Enable&c.Flag&0x1F != 0
}

// Next returns the highest-priority pending+enabled interrupt and its
// vector, clearing its IF bit. ok is false if none is pending.
func (c *Controller) Next() (flag Flag, vector uint16, ok bool) {
	active := c.Enable & c.Flag & 0x1F
	if active == 0 {
		return 0, 0, false
	}
	for i := Flag(0); i < 5; i++ {
		if active&(1<<i) != 0 {
			c.Clear(i)
			return i, vectors[i], true
		}
	}
	return 0, 0, false
}

// ReadIF returns the IF register; unused bits read back as 1.
func (c *Controller) ReadIF() uint8 {
	return c.Flag&0x1F | 0xE0
}

// WriteIF writes the IF register. Only the low 5 bits are meaningful.
func (c *Controller) WriteIF(v uint8) {
	c.Flag = v & 0x1F
}

// ReadIE returns the IE register.
func (c *Controller) ReadIE() uint8 {
	return c.Enable
}

// WriteIE writes the IE register.
func (c *Controller) WriteIE(v uint8) {
	c.Enable = v
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.Enable)
	s.Write8(c.Flag)
}

func (c *Controller) Load(s *types.State) {
	c.Enable = s.Read8()
	c.Flag = s.Read8()
}

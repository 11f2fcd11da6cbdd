// Package joypad emulates the Game Boy's 8-key input latch addressable at
// FF00. It tracks pressed/released state for all eight buttons and raises
// the JOYPAD interrupt on a released->pressed edge of a selected row.
package joypad

import (
	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/16meyrat/gbcemu-go/internal/types"
	"github.com/16meyrat/gbcemu-go/pkg/bits"
)

// Button identifies one of the eight physical buttons. The bit layout
// matches the combined action/direction nibble FF00 would report if both
// rows were selected at once: low nibble = direction, high nibble = action.
type Button = uint8

const (
	Right  Button = 0x01
	Left   Button = 0x02
	Up     Button = 0x04
	Down   Button = 0x08
	A      Button = 0x10
	B      Button = 0x20
	Select Button = 0x40
	Start  Button = 0x80
)

// Edge is a single button transition delivered by the host between
// RunFrame calls.
type Edge struct {
	Button  Button
	Pressed bool
}

// Joypad holds the FF00 shadow register and current button state.
type Joypad struct {
	state    uint8 // 1 = pressed, bit layout as above
	register uint8 // select bits (4,5) as last written
	irq      *interrupts.Controller
}

// New returns a Joypad with no buttons held and both selection lines
// deasserted (the power-on state, register reads back as 0xFF).
func New(irq *interrupts.Controller) *Joypad {
	return &Joypad{register: 0x30, irq: irq}
}

// Read returns the FF00 value: bits 6-7 always 1, bits 4-5 the selection
// the game last wrote, bits 0-3 the low-active row the selection picks
// (released buttons, or a deselected row, read as 1).
func (j *Joypad) Read() uint8 {
	out := j.register | 0xC0 | 0x0F
	if j.register&0x10 == 0 { // direction row selected
		out &^= j.state & 0x0F
	}
	if j.register&0x20 == 0 { // action row selected
		out &^= (j.state >> 4) & 0x0F
	}
	return out
}

// Write updates the selection bits (4,5); the rest of FF00 is read-only.
func (j *Joypad) Write(v uint8) {
	j.register = (j.register & 0xCF) | (v & 0x30)
}

// Press marks button as held. It returns true if this edge should raise
// the JOYPAD interrupt: the button was not already held, and the row it
// belongs to is currently selected.
func (j *Joypad) Press(button Button) bool {
	wasHeld := bits.Test(j.state, bit(button))
	j.state |= button
	if wasHeld {
		return false
	}
	if button <= Down { // direction row
		return j.register&0x10 == 0
	}
	return j.register&0x20 == 0
}

// Release marks button as no longer held.
func (j *Joypad) Release(button Button) {
	j.state &^= button
}

// Apply applies a batch of edges accumulated by the host since the last
// frame, returning true if any of them should raise JOYPAD.
func (j *Joypad) Apply(edges []Edge) bool {
	interrupt := false
	for _, e := range edges {
		if e.Pressed {
			if j.Press(e.Button) {
				interrupt = true
			}
		} else {
			j.Release(e.Button)
		}
	}
	if interrupt {
		j.irq.Request(interrupts.Joypad)
	}
	return interrupt
}

func (j *Joypad) Save(s *types.State) {
	s.Write8(j.state)
	s.Write8(j.register)
}

func (j *Joypad) Load(s *types.State) {
	j.state = s.Read8()
	j.register = s.Read8()
}

var _ types.Stater = (*Joypad)(nil)

func bit(button Button) uint8 {
	n := uint8(0)
	for button > 1 {
		button >>= 1
		n++
	}
	return n
}

// Package cpu implements the Sharp LR35902 instruction set: fetch/decode/
// execute for all 256 unprefixed and 256 CB-prefixed opcodes, the
// interrupt dispatch sequence, and the HALT/STOP/EI-delay timing quirks
// real software depends on.
package cpu

import (
	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/16meyrat/gbcemu-go/internal/types"
)

// Memory is the bus surface the CPU needs: byte-addressed read/write
// over the full 16-bit space. internal/bus.Bus satisfies this.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// CPU is the Sharp LR35902 core: registers, program counter, stack
// pointer, interrupt master enable, and the HALT/STOP mode it may be
// sitting in between instructions.
type CPU struct {
	Registers
	PC uint16
	SP uint16

	ime          bool
	imeScheduled bool // EI takes effect after the instruction following it

	halted  bool
	haltBug bool // HALT executed with IME=0 and an interrupt already pending
	stopped bool

	mem Memory
	irq *interrupts.Controller
}

// New returns a CPU in its post-boot-ROM state: registers, SP and PC set
// to the values the boot ROM leaves behind when control passes to the
// cartridge at 0x0100.
func New(mem Memory, irq *interrupts.Controller) *CPU {
	c := &CPU{mem: mem, irq: irq}
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	return c
}

func (c *CPU) fetch8() uint8 {
	v := c.mem.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) push16(v uint16) {
	c.SP--
	c.mem.Write(c.SP, uint8(v>>8))
	c.SP--
	c.mem.Write(c.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.mem.Read(c.SP)
	c.SP++
	hi := c.mem.Read(c.SP)
	c.SP++
	return uint16(lo) | uint16(hi)<<8
}

// Step executes exactly one instruction (or one interrupt dispatch, or
// one idle tick while halted/stopped) and returns the number of T-cycles
// it took, for the caller to feed into Bus.Tick.
func (c *CPU) Step() int {
	if cycles, serviced := c.serviceInterrupt(); serviced {
		return cycles
	}

	// STOP is modeled as HALT: wake on any pending interrupt line. Real
	// hardware also resets DIV and (on CGB) arbitrates a speed switch;
	// neither applies to a DMG-scoped core with no host-driven STOP exit.
	if c.stopped {
		if c.irq.Pending() {
			c.stopped = false
		} else {
			return 4
		}
	}

	if c.halted {
		if c.irq.Pending() {
			c.halted = false
		} else {
			return 4
		}
	}

	scheduledIME := c.imeScheduled
	c.imeScheduled = false

	var cycles int
	if c.haltBug {
		// The byte at PC is fetched without PC advancing, so the next
		// opcode executes twice: this reads the opcode directly instead
		// of through fetch8, leaving PC on the same byte.
		c.haltBug = false
		op := c.mem.Read(c.PC)
		cycles = c.execute(op)
	} else {
		op := c.fetch8()
		cycles = c.execute(op)
	}

	if scheduledIME {
		c.ime = true
	}
	return cycles
}

// serviceInterrupt dispatches the highest-priority pending+enabled
// interrupt if IME is set. Real hardware spends 5 machine cycles (20 T)
// on this: two wasted cycles, a two-byte PC push, and a cycle to load
// the vector into PC.
func (c *CPU) serviceInterrupt() (cycles int, serviced bool) {
	if !c.ime {
		return 0, false
	}
	_, vector, ok := c.irq.Next()
	if !ok {
		return 0, false
	}
	c.ime = false
	c.halted = false
	c.stopped = false
	c.push16(c.PC)
	c.PC = vector
	return 20, true
}

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.PC)
	s.Write16(c.SP)
	s.WriteBool(c.ime)
	s.WriteBool(c.imeScheduled)
	s.WriteBool(c.halted)
	s.WriteBool(c.haltBug)
	s.WriteBool(c.stopped)
}

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.PC = s.Read16()
	c.SP = s.Read16()
	c.ime = s.ReadBool()
	c.imeScheduled = s.ReadBool()
	c.halted = s.ReadBool()
	c.haltBug = s.ReadBool()
	c.stopped = s.ReadBool()
}

var _ types.Stater = (*CPU)(nil)

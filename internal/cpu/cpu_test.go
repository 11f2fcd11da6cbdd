package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/16meyrat/gbcemu-go/internal/interrupts"
)

// flatMemory is a 64KB byte array satisfying Memory, used so CPU tests
// can exercise instruction semantics without pulling in the real bus.
type flatMemory [0x10000]byte

func (m *flatMemory) Read(addr uint16) uint8     { return m[addr] }
func (m *flatMemory) Write(addr uint16, v uint8) { m[addr] = v }

func newTestCPU(program ...uint8) (*CPU, *flatMemory, *interrupts.Controller) {
	mem := &flatMemory{}
	copy(mem[0x0100:], program)
	irq := interrupts.NewController()
	c := New(mem, irq)
	return c, mem, irq
}

func TestLDBCImmediate(t *testing.T) {
	c, _, _ := newTestCPU(0x01, 0x34, 0x12) // LD BC,0x1234
	cycles := c.Step()
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0x1234), c.BC())
	assert.Equal(t, uint16(0x0103), c.PC)
}

func TestADCWithCarrySet(t *testing.T) {
	c, _, _ := newTestCPU(0x88) // ADC A,B
	c.A = 0x0F
	c.B = 0x01
	c.setCarry(true)
	c.Step()
	assert.Equal(t, uint8(0x11), c.A)
	assert.True(t, c.halfCarry())
	assert.False(t, c.carry())
	assert.False(t, c.zero())
}

func TestADCCarryOutAndZero(t *testing.T) {
	c, _, _ := newTestCPU(0x88) // ADC A,B
	c.A = 0xFF
	c.B = 0x00
	c.setCarry(true)
	c.Step()
	assert.Equal(t, uint8(0x00), c.A)
	assert.True(t, c.zero())
	assert.True(t, c.carry())
	assert.True(t, c.halfCarry())
}

func TestJRNZTaken(t *testing.T) {
	c, _, _ := newTestCPU(0x20, 0x05) // JR NZ,+5
	c.setZero(false)
	cycles := c.Step()
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0x0107), c.PC)
}

func TestJRNZNotTaken(t *testing.T) {
	c, _, _ := newTestCPU(0x20, 0x05) // JR NZ,+5
	c.setZero(true)
	cycles := c.Step()
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint16(0x0102), c.PC)
}

func TestRST28(t *testing.T) {
	c, mem, _ := newTestCPU(0xEF) // RST 0x28
	c.SP = 0xFFFE
	cycles := c.Step()
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x0028), c.PC)
	assert.Equal(t, uint16(0xFFFC), c.SP)
	assert.Equal(t, uint8(0x01), mem[0xFFFD]) // high byte of return address 0x0101
	assert.Equal(t, uint8(0x01), mem[0xFFFC]) // low byte
}

func TestVBlankInterruptDispatch(t *testing.T) {
	c, _, irq := newTestCPU(0x00) // NOP, never actually reached
	c.ime = true
	irq.Enable = 1 << interrupts.VBlank
	irq.Request(interrupts.VBlank)
	c.SP = 0xFFFE

	cycles := c.Step()
	assert.Equal(t, 20, cycles)
	assert.Equal(t, uint16(0x0040), c.PC)
	assert.False(t, c.ime)
	assert.Equal(t, uint16(0x0100), c.pop16())
}

func TestEITakesEffectAfterNextInstruction(t *testing.T) {
	c, _, irq := newTestCPU(0xFB, 0x00, 0x00) // EI, NOP, NOP
	irq.Enable = 1 << interrupts.VBlank
	irq.Request(interrupts.VBlank)

	c.Step() // EI: IME scheduled, not yet active
	assert.False(t, c.ime)

	c.Step() // NOP: IME becomes active at the end of this instruction
	assert.True(t, c.ime)

	cycles := c.Step() // interrupt now dispatches instead of the second NOP
	assert.Equal(t, 20, cycles)
	assert.Equal(t, uint16(0x0040), c.PC)
}

func TestHaltResumesOnPendingInterruptWithoutIME(t *testing.T) {
	c, _, irq := newTestCPU(0x76, 0x3C) // HALT, INC A
	c.ime = false
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.True(t, c.halted)

	irq.Enable = 1 << interrupts.VBlank
	irq.Request(interrupts.VBlank)

	c.Step() // wakes, does not service the interrupt (IME=0), executes INC A
	assert.False(t, c.halted)
	assert.Equal(t, uint8(0x02), c.A) // A starts at the post-boot 0x01
}

func TestHaltBugDoubleExecutesNextOpcode(t *testing.T) {
	c, _, irq := newTestCPU(0x76, 0x3C, 0x00) // HALT, INC A, NOP
	c.ime = false
	irq.Enable = 1 << interrupts.VBlank
	irq.Request(interrupts.VBlank) // pending+enabled with IME=0 at HALT time

	c.Step() // HALT triggers the halt bug instead of actually halting
	assert.False(t, c.halted)
	assert.True(t, c.haltBug)

	c.Step() // first execution of INC A (A starts at 0x01), PC does not advance past it
	assert.Equal(t, uint8(0x02), c.A)
	assert.Equal(t, uint16(0x0101), c.PC)

	c.Step() // INC A executes again, this time advancing PC normally
	assert.Equal(t, uint8(0x03), c.A)
	assert.Equal(t, uint16(0x0102), c.PC)
}

func TestBitInstructionLeavesCarryUntouched(t *testing.T) {
	c, _, _ := newTestCPU(0xCB, 0x7F) // BIT 7,A
	c.A = 0x7F
	c.setCarry(true)
	c.Step()
	assert.True(t, c.zero())
	assert.False(t, c.subtract())
	assert.True(t, c.halfCarry())
	assert.True(t, c.carry())
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _, _ := newTestCPU(0xC5, 0xF1) // PUSH BC, POP AF
	c.SetBC(0x1234)
	c.SP = 0xFFFE
	c.Step()
	assert.Equal(t, uint16(0xFFFC), c.SP)

	c.Step()
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, uint8(0x12), c.A)
	assert.Equal(t, uint8(0x30), c.F) // low nibble of F is always masked to zero
}

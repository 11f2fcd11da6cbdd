// Package bus implements the Game Boy's 16-bit address space: it decodes
// every CPU-visible address into cartridge, VRAM/OAM, RAM, or register
// accesses and owns the pieces no other component does (WRAM, HRAM, the
// echo mirror, the OAM DMA transfer, and the serial/CGB register stubs).
package bus

import (
	"fmt"

	"github.com/16meyrat/gbcemu-go/internal/apu"
	"github.com/16meyrat/gbcemu-go/internal/cartridge"
	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/16meyrat/gbcemu-go/internal/joypad"
	"github.com/16meyrat/gbcemu-go/internal/ppu"
	"github.com/16meyrat/gbcemu-go/internal/timer"
	"github.com/16meyrat/gbcemu-go/internal/types"
)

// Bus wires every other CORE component onto the CPU's address space.
type Bus struct {
	Cart   *cartridge.Cartridge
	PPU    *ppu.PPU
	APU    *apu.APU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	IRQ    *interrupts.Controller

	wram [0x2000]byte // 0xC000-0xDFFF, mirrored at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	dmaRegister uint8
}

// New returns a Bus wiring together the given components.
func New(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, t *timer.Timer, jp *joypad.Joypad, irq *interrupts.Controller) *Bus {
	return &Bus{Cart: cart, PPU: p, APU: a, Timer: t, Joypad: jp, IRQ: irq}
}

// Tick advances every time-driven component by tCycles T-states. The
// emulator's Step/RunFrame call this once per CPU step with that step's
// cycle cost.
// It returns true if this tick crossed into VBlank, so a frame driver
// can stop stepping without re-deriving that from the PPU directly.
func (b *Bus) Tick(tCycles int) bool {
	b.Timer.Tick(tCycles)
	vblank := b.PPU.Tick(tCycles)
	b.APU.Tick(tCycles)
	return vblank
}

// Read reads a byte from anywhere in the 16-bit address space.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.Cart.ReadROM(addr)
	case addr < 0xA000:
		return b.PPU.ReadVRAM(addr)
	case addr < 0xC000:
		return b.Cart.ReadRAM(addr)
	case addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr < 0xFE00:
		return b.wram[addr-0xE000]
	case addr < 0xFEA0:
		return b.PPU.ReadOAM(addr)
	case addr < 0xFF00:
		return 0 // unusable range, reads as 0
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01, addr == 0xFF02:
		return 0 // serial: no link cable, stubbed out of scope
	case addr == 0xFF04:
		return b.Timer.ReadDIV()
	case addr == 0xFF05:
		return b.Timer.ReadTIMA()
	case addr == 0xFF06:
		return b.Timer.ReadTMA()
	case addr == 0xFF07:
		return b.Timer.ReadTAC()
	case addr == types.IF:
		return b.IRQ.ReadIF()
	case addr == 0xFF46:
		return b.dmaRegister
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.APU.ReadRegister(addr)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.PPU.ReadRegister(addr)
	case addr >= 0xFF4C && addr < 0xFF80:
		return 0 // CGB-only registers, stubbed out of scope
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	case addr == types.IE:
		return b.IRQ.ReadIE()
	}
	panic(fmt.Sprintf("bus: unmapped read at 0x%04X", addr))
}

// Write writes a byte to anywhere in the 16-bit address space.
func (b *Bus) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x8000:
		b.Cart.WriteROM(addr, v)
	case addr < 0xA000:
		b.PPU.WriteVRAM(addr, v)
	case addr < 0xC000:
		b.Cart.WriteRAM(addr, v)
	case addr < 0xE000:
		b.wram[addr-0xC000] = v
	case addr < 0xFE00:
		b.wram[addr-0xE000] = v
	case addr < 0xFEA0:
		b.PPU.WriteOAM(addr, v)
	case addr < 0xFF00:
		// unusable range, writes are discarded
	case addr == 0xFF00:
		b.Joypad.Write(v)
	case addr == 0xFF01, addr == 0xFF02:
		// serial: no link cable, stubbed out of scope
	case addr == 0xFF04:
		b.Timer.WriteDIV(v)
	case addr == 0xFF05:
		b.Timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.Timer.WriteTMA(v)
	case addr == 0xFF07:
		b.Timer.WriteTAC(v)
	case addr == types.IF:
		b.IRQ.WriteIF(v)
	case addr == 0xFF46:
		b.startDMA(v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.APU.WriteRegister(addr, v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.WriteRegister(addr, v)
	case addr >= 0xFF4C && addr < 0xFF80:
		// CGB-only registers, stubbed out of scope
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	case addr == types.IE:
		b.IRQ.WriteIE(v)
	default:
		panic(fmt.Sprintf("bus: unmapped write at 0x%04X", addr))
	}
}

// startDMA performs the OAM DMA transfer. Real hardware takes 160
// machine cycles and blocks most bus access while it runs; per spec §4.2
// this is modeled as an instantaneous copy instead, trading that
// sub-instruction timing detail for a much simpler CPU/bus interface.
func (b *Bus) startDMA(v uint8) {
	b.dmaRegister = v
	source := uint16(v) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.PPU.WriteOAM(0xFE00+i, b.Read(source+i))
	}
}

// Read16 and Write16 are convenience helpers for the CPU's 16-bit
// load/store instructions; the Game Boy bus has no native 16-bit access,
// so these are just two little-endian 8-bit accesses.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write(addr, uint8(v))
	b.Write(addr+1, uint8(v>>8))
}

// Save writes the bus-owned state: WRAM, HRAM, and the DMA register.
// Components owned by pointer (Cart, PPU, APU, Timer, Joypad, IRQ) are
// saved separately by the caller, which holds the same pointers.
func (b *Bus) Save(s *types.State) {
	s.WriteData(b.wram[:])
	s.WriteData(b.hram[:])
	s.Write8(b.dmaRegister)
}

// Load restores state written by Save.
func (b *Bus) Load(s *types.State) {
	s.ReadData(b.wram[:])
	s.ReadData(b.hram[:])
	b.dmaRegister = s.Read8()
}

package cpu

import "github.com/16meyrat/gbcemu-go/pkg/bits"

// Flag bit positions within F, high nibble only; the low nibble of F is
// always zero on real hardware and is masked out wherever F is read.
const (
	flagZ uint8 = 7
	flagN uint8 = 6
	flagH uint8 = 5
	flagC uint8 = 4
)

// Registers holds the eight 8-bit general-purpose registers. 16-bit
// access is synthesized from pairs (AF, BC, DE, HL) rather than storing
// the pairs directly, so every instruction that addresses a single
// register (the large majority) needs no indirection.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) {
	r.A = uint8(v >> 8)
	r.F = uint8(v) & 0xF0
}
func (r *Registers) SetBC(v uint16) { r.B = uint8(v >> 8); r.C = uint8(v) }
func (r *Registers) SetDE(v uint16) { r.D = uint8(v >> 8); r.E = uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H = uint8(v >> 8); r.L = uint8(v) }

func (r *Registers) zero() bool      { return bits.Test(r.F, flagZ) }
func (r *Registers) subtract() bool  { return bits.Test(r.F, flagN) }
func (r *Registers) halfCarry() bool { return bits.Test(r.F, flagH) }
func (r *Registers) carry() bool     { return bits.Test(r.F, flagC) }

func (r *Registers) setZero(v bool)      { r.F = bits.SetIf(r.F, flagZ, v) }
func (r *Registers) setSubtract(v bool)  { r.F = bits.SetIf(r.F, flagN, v) }
func (r *Registers) setHalfCarry(v bool) { r.F = bits.SetIf(r.F, flagH, v) }
func (r *Registers) setCarry(v bool)     { r.F = bits.SetIf(r.F, flagC, v) }

// setFlags is the common case: every ALU op defines all four flags.
func (r *Registers) setFlags(z, n, h, c bool) {
	r.setZero(z)
	r.setSubtract(n)
	r.setHalfCarry(h)
	r.setCarry(c)
}

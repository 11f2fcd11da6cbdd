package cpu

import "github.com/16meyrat/gbcemu-go/pkg/bits"

// executeCB decodes and runs one CB-prefixed opcode, returning its
// full T-cycle cost, including the 4 cycles of the CB prefix byte.
func (c *CPU) executeCB(op uint8) int {
	reg := op & 7
	get, set := c.reg8dst(reg)
	onMemory := reg == 6

	switch {
	case op < 0x40: // rotate/shift/swap family, 8 ops x 8 registers
		var result uint8
		switch op >> 3 {
		case 0:
			result = c.rlc(get())
		case 1:
			result = c.rrc(get())
		case 2:
			result = c.rl(get())
		case 3:
			result = c.rr(get())
		case 4:
			result = c.sla(get())
		case 5:
			result = c.sra(get())
		case 6:
			result = c.swap(get())
		default:
			result = c.srl(get())
		}
		set(result)
		if onMemory {
			return 16
		}
		return 8

	case op < 0x80: // BIT b,r
		c.bit(op>>3&7, get())
		if onMemory {
			return 12
		}
		return 8

	case op < 0xC0: // RES b,r
		set(bits.Reset(get(), op>>3&7))
		if onMemory {
			return 16
		}
		return 8

	default: // SET b,r
		set(bits.Set(get(), op>>3&7))
		if onMemory {
			return 16
		}
		return 8
	}
}

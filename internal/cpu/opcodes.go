package cpu

// execute decodes and runs one unprefixed opcode, returning its T-cycle
// cost. Regular instruction families (8-bit/16-bit loads, INC/DEC,
// ALU, jumps/calls/returns with conditions) are decoded by their shared
// bit pattern rather than enumerated one by one; the handful of
// irregular opcodes are handled by explicit value in the trailing switch.
func (c *CPU) execute(op uint8) int {
	switch {
	case op == 0xCB:
		cb := c.fetch8()
		return c.executeCB(cb)

	case op == 0x76: // HALT
		if !c.ime && c.irq.Pending() {
			c.haltBug = true
		} else {
			c.halted = true
		}
		return 4

	case op >= 0x40 && op <= 0x7F: // LD r,r'
		get, _ := c.reg8dst(op & 7)
		_, set := c.reg8dst(op >> 3 & 7)
		set(get())
		if op>>3&7 == 6 || op&7 == 6 {
			return 8
		}
		return 4

	case op >= 0x80 && op <= 0xBF: // ALU A,r
		src, _ := c.reg8dst(op & 7)
		c.aluApply(op>>3&7, src())
		if op&7 == 6 {
			return 8
		}
		return 4

	case op&0xC7 == 0x04: // INC r8 / INC (HL)
		get, set := c.reg8dst(op >> 3 & 7)
		set(c.inc8(get()))
		if op>>3&7 == 6 {
			return 12
		}
		return 4

	case op&0xC7 == 0x05: // DEC r8 / DEC (HL)
		get, set := c.reg8dst(op >> 3 & 7)
		set(c.dec8(get()))
		if op>>3&7 == 6 {
			return 12
		}
		return 4

	case op&0xC7 == 0x06: // LD r,d8 / LD (HL),d8
		_, set := c.reg8dst(op >> 3 & 7)
		v := c.fetch8()
		set(v)
		if op>>3&7 == 6 {
			return 12
		}
		return 8

	case op&0xCF == 0x01: // LD rr,d16
		c.setPairSP(op>>4&3, c.fetch16())
		return 12

	case op&0xCF == 0x03: // INC rr
		c.setPairSP(op>>4&3, c.pairSP(op>>4&3)+1)
		return 8

	case op&0xCF == 0x0B: // DEC rr
		c.setPairSP(op>>4&3, c.pairSP(op>>4&3)-1)
		return 8

	case op&0xCF == 0x09: // ADD HL,rr
		c.addHL(c.pairSP(op >> 4 & 3))
		return 8

	case op&0xCF == 0xC5: // PUSH rr
		c.push16(c.pairAF(op >> 4 & 3))
		return 16

	case op&0xCF == 0xC1: // POP rr
		c.setPairAF(op>>4&3, c.pop16())
		return 12

	case op&0xC7 == 0xC7: // RST n
		c.push16(c.PC)
		c.PC = uint16(op & 0x38)
		return 16

	case op&0xE7 == 0x20: // JR cc,r8
		offset := int8(c.fetch8())
		if c.condTrue(op >> 3 & 3) {
			c.PC = uint16(int32(c.PC) + int32(offset))
			return 12
		}
		return 8

	case op&0xE7 == 0xC2: // JP cc,a16
		target := c.fetch16()
		if c.condTrue(op >> 3 & 3) {
			c.PC = target
			return 16
		}
		return 12

	case op&0xE7 == 0xC4: // CALL cc,a16
		target := c.fetch16()
		if c.condTrue(op >> 3 & 3) {
			c.push16(c.PC)
			c.PC = target
			return 24
		}
		return 12

	case op&0xE7 == 0xC0: // RET cc
		if c.condTrue(op >> 3 & 3) {
			c.PC = c.pop16()
			return 20
		}
		return 8

	case op&0xC7 == 0xC6: // ALU A,d8
		c.aluApply(op>>3&7, c.fetch8())
		return 8
	}

	switch op {
	case 0x00: // NOP
		return 4
	case 0x02: // LD (BC),A
		c.mem.Write(c.BC(), c.A)
		return 8
	case 0x12: // LD (DE),A
		c.mem.Write(c.DE(), c.A)
		return 8
	case 0x0A: // LD A,(BC)
		c.A = c.mem.Read(c.BC())
		return 8
	case 0x1A: // LD A,(DE)
		c.A = c.mem.Read(c.DE())
		return 8
	case 0x22: // LD (HL+),A
		c.mem.Write(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
		return 8
	case 0x32: // LD (HL-),A
		c.mem.Write(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
		return 8
	case 0x2A: // LD A,(HL+)
		c.A = c.mem.Read(c.HL())
		c.SetHL(c.HL() + 1)
		return 8
	case 0x3A: // LD A,(HL-)
		c.A = c.mem.Read(c.HL())
		c.SetHL(c.HL() - 1)
		return 8
	case 0x07: // RLCA
		c.A = c.rlc(c.A)
		c.setZero(false)
		return 4
	case 0x0F: // RRCA
		c.A = c.rrc(c.A)
		c.setZero(false)
		return 4
	case 0x17: // RLA
		c.A = c.rl(c.A)
		c.setZero(false)
		return 4
	case 0x1F: // RRA
		c.A = c.rr(c.A)
		c.setZero(false)
		return 4
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.mem.Write(addr, uint8(c.SP))
		c.mem.Write(addr+1, uint8(c.SP>>8))
		return 20
	case 0x10: // STOP
		c.fetch8() // the second, conventionally-zero byte of the STOP instruction
		c.stopped = true
		return 4
	case 0x18: // JR r8
		offset := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(offset))
		return 12
	case 0x27: // DAA
		c.daa()
		return 4
	case 0x2F: // CPL
		c.A = ^c.A
		c.setSubtract(true)
		c.setHalfCarry(true)
		return 4
	case 0x37: // SCF
		c.setSubtract(false)
		c.setHalfCarry(false)
		c.setCarry(true)
		return 4
	case 0x3F: // CCF
		c.setSubtract(false)
		c.setHalfCarry(false)
		c.setCarry(!c.carry())
		return 4
	case 0xC3: // JP a16
		c.PC = c.fetch16()
		return 16
	case 0xCD: // CALL a16
		target := c.fetch16()
		c.push16(c.PC)
		c.PC = target
		return 24
	case 0xC9: // RET
		c.PC = c.pop16()
		return 16
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.ime = true
		return 16
	case 0xE9: // JP (HL)
		c.PC = c.HL()
		return 4
	case 0xE0: // LDH (a8),A
		c.mem.Write(0xFF00+uint16(c.fetch8()), c.A)
		return 12
	case 0xF0: // LDH A,(a8)
		c.A = c.mem.Read(0xFF00 + uint16(c.fetch8()))
		return 12
	case 0xE2: // LD (C),A
		c.mem.Write(0xFF00+uint16(c.C), c.A)
		return 8
	case 0xF2: // LD A,(C)
		c.A = c.mem.Read(0xFF00 + uint16(c.C))
		return 8
	case 0xEA: // LD (a16),A
		c.mem.Write(c.fetch16(), c.A)
		return 16
	case 0xFA: // LD A,(a16)
		c.A = c.mem.Read(c.fetch16())
		return 16
	case 0xE8: // ADD SP,r8
		c.SP = c.addSPSigned(int8(c.fetch8()))
		return 16
	case 0xF8: // LD HL,SP+r8
		c.SetHL(c.addSPSigned(int8(c.fetch8())))
		return 12
	case 0xF9: // LD SP,HL
		c.SP = c.HL()
		return 8
	case 0xF3: // DI
		c.ime = false
		c.imeScheduled = false
		return 4
	case 0xFB: // EI
		c.imeScheduled = true
		return 4
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		// Illegal opcodes: the fetch has already moved PC past the byte,
		// so execution continues with the next one, as a 4-cycle no-op
		// rather than a panic. They are not logged.
		return 4
	}
	panic("cpu: unreachable opcode decode")
}

// reg8dst returns get/set closures for the 3-bit register-or-(HL) field
// used throughout the unprefixed and CB tables: 0-5 are B,C,D,E,H,L, 6 is
// the byte at (HL), 7 is A.
func (c *CPU) reg8dst(i uint8) (get func() uint8, set func(uint8)) {
	switch i {
	case 0:
		return func() uint8 { return c.B }, func(v uint8) { c.B = v }
	case 1:
		return func() uint8 { return c.C }, func(v uint8) { c.C = v }
	case 2:
		return func() uint8 { return c.D }, func(v uint8) { c.D = v }
	case 3:
		return func() uint8 { return c.E }, func(v uint8) { c.E = v }
	case 4:
		return func() uint8 { return c.H }, func(v uint8) { c.H = v }
	case 5:
		return func() uint8 { return c.L }, func(v uint8) { c.L = v }
	case 6:
		return func() uint8 { return c.mem.Read(c.HL()) }, func(v uint8) { c.mem.Write(c.HL(), v) }
	default:
		return func() uint8 { return c.A }, func(v uint8) { c.A = v }
	}
}

func (c *CPU) aluApply(op uint8, v uint8) {
	switch op {
	case 0: // ADD
		c.A = c.add8(c.A, v, false)
	case 1: // ADC
		c.A = c.add8(c.A, v, c.carry())
	case 2: // SUB
		c.A = c.sub8(c.A, v, false)
	case 3: // SBC
		c.A = c.sub8(c.A, v, c.carry())
	case 4: // AND
		c.A = c.and8(c.A, v)
	case 5: // XOR
		c.A = c.xor8(c.A, v)
	case 6: // OR
		c.A = c.or8(c.A, v)
	case 7: // CP
		c.cp8(c.A, v)
	}
}

// pairSP/setPairSP address the rr field of opcodes where register pair 3
// is SP (LD rr,d16; INC/DEC rr; ADD HL,rr).
func (c *CPU) pairSP(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setPairSP(p uint8, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// pairAF/setPairAF address the rr field of PUSH/POP, where register pair
// 3 is AF instead of SP.
func (c *CPU) pairAF(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.AF()
	}
}

func (c *CPU) setPairAF(p uint8, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SetAF(v)
	}
}

func (c *CPU) condTrue(cc uint8) bool {
	switch cc {
	case 0:
		return !c.zero()
	case 1:
		return c.zero()
	case 2:
		return !c.carry()
	default:
		return c.carry()
	}
}

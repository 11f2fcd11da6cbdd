package cartridge

import (
	"encoding/binary"
	"fmt"
	"time"
)

// rtc models the MBC3 real-time clock as a signed offset from wall-clock
// UTC (spec §4.1/§9): while running, the clock's value is
// time.Now()+offsetSeconds; while halted, offsetSeconds IS the frozen
// absolute value. This makes persistence trivial (§4.1 persistence
// format: an 8-byte offset plus a 1-byte halt discriminator) and survives
// host clock jumps as gracefully as a cheap software RTC can.
type rtc struct {
	offsetSeconds int64
	halted        bool
	carry         bool

	latch     [5]uint8 // S, M, H, DL, DH snapshot as of the last latch
	latchPrev uint8    // last value written to 6000-7FFF, for the 0->1 edge
}

func (r *rtc) total(now time.Time) int64 {
	if r.halted {
		return r.offsetSeconds
	}
	return now.Unix() + r.offsetSeconds
}

func decomposeClock(total int64) (s, m, h uint8, days uint16, carry bool) {
	if total < 0 {
		total = 0
	}
	s = uint8(total % 60)
	m = uint8((total / 60) % 60)
	h = uint8((total / 3600) % 24)
	totalDays := total / 86400
	days = uint16(totalDays % 512)
	carry = totalDays >= 512
	return
}

func composeClock(s, m, h uint8, days uint16) int64 {
	return int64(days)*86400 + int64(h)*3600 + int64(m)*60 + int64(s)
}

// latchSnapshot freezes the current clock value into the readable
// register snapshot, as triggered by the 0x00->0x01 write sequence at
// 6000-7FFF.
func (r *rtc) latchSnapshot(now time.Time) {
	s, m, h, days, carry := decomposeClock(r.total(now))
	r.latch[0] = s
	r.latch[1] = m
	r.latch[2] = h
	r.latch[3] = uint8(days & 0xFF)
	dh := uint8((days >> 8) & 0x01)
	if r.halted {
		dh |= 0x40
	}
	if carry || r.carry {
		dh |= 0x80
	}
	r.latch[4] = dh
}

// writeRegister applies a write to the selected S/M/H/DL/DH register
// (selector 8-12) to the live clock.
func (r *rtc) writeRegister(selector uint8, v uint8, now time.Time) {
	s, m, h, days, _ := decomposeClock(r.total(now))
	switch selector {
	case 8:
		s = v % 60
	case 9:
		m = v % 60
	case 10:
		h = v % 24
	case 11:
		days = (days &^ 0xFF) | uint16(v)
	case 12:
		if v&0x01 != 0 {
			days |= 0x100
		} else {
			days &^= 0x100
		}
		r.carry = v&0x80 != 0
		haltNow := v&0x40 != 0
		if haltNow && !r.halted {
			r.offsetSeconds = composeClock(s, m, h, days)
			r.halted = true
			return
		} else if !haltNow && r.halted {
			r.offsetSeconds = composeClock(s, m, h, days) - now.Unix()
			r.halted = false
			return
		}
	default:
		return
	}

	newTotal := composeClock(s, m, h, days)
	if r.halted {
		r.offsetSeconds = newTotal
	} else {
		r.offsetSeconds = newTotal - now.Unix()
	}
}

func (r *rtc) save() []byte {
	buf := make([]byte, 9)
	binary.BigEndian.PutUint64(buf[:8], uint64(r.offsetSeconds))
	if r.halted {
		buf[8] = 1
	}
	return buf
}

func (r *rtc) load(data []byte) {
	r.offsetSeconds = int64(binary.BigEndian.Uint64(data[:8]))
	r.halted = data[8] == 1
}

// MBC3 implements the 7-bit ROM selector, 4-bank RAM / RTC register
// selector, and latch sequence described in spec §4.1.
type MBC3 struct {
	rom []byte
	ram []byte

	romBank int
	bankSel uint8 // 0-3 selects a RAM bank; 8-12 selects an RTC register
	ramEnable bool

	hasRTC bool
	clock  rtc

	romBanks int
	now      func() time.Time
}

// NewMBC3 returns an MBC3 cartridge. hasRTC enables the S/M/H/DL/DH
// register set for cartridge types 0x0F/0x10.
func NewMBC3(rom []byte, ramSize int, hasRTC bool) *MBC3 {
	return &MBC3{
		rom:      rom,
		ram:      make([]byte, ramSize),
		romBank:  1,
		hasRTC:   hasRTC,
		romBanks: len(rom) / 0x4000,
		now:      time.Now,
	}
}

func (m *MBC3) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := m.romBank % m.romBanks
	offset := bank*0x4000 + int(addr&0x3FFF)
	if offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MBC3) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = int(v)
	case addr < 0x6000:
		m.bankSel = v
	case addr < 0x8000:
		if m.hasRTC && m.latchPrevIsZero() && v == 0x01 {
			m.clock.latchSnapshot(m.now())
		}
		m.clock.latchPrev = v
	}
}

func (m *MBC3) latchPrevIsZero() bool {
	return m.clock.latchPrev == 0x00
}

func (m *MBC3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable {
		return noRAMByte
	}
	if m.hasRTC && m.bankSel >= 0x08 && m.bankSel <= 0x0C {
		return m.clock.latch[m.bankSel-0x08]
	}
	if m.bankSel > 0x03 || len(m.ram) == 0 {
		return noRAMByte
	}
	offset := int(m.bankSel)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return noRAMByte
	}
	return m.ram[offset]
}

func (m *MBC3) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable {
		return
	}
	if m.hasRTC && m.bankSel >= 0x08 && m.bankSel <= 0x0C {
		m.clock.writeRegister(m.bankSel, v, m.now())
		return
	}
	if m.bankSel > 0x03 || len(m.ram) == 0 {
		return
	}
	offset := int(m.bankSel)*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return
	}
	m.ram[offset] = v
}

func (m *MBC3) Save() []byte {
	out := append([]byte(nil), m.ram...)
	if m.hasRTC {
		out = append(out, m.clock.save()...)
	}
	return out
}

func (m *MBC3) LoadSave(data []byte) error {
	ramLen := len(m.ram)
	want := ramLen
	if m.hasRTC {
		want += 9
	}
	if len(data) != 0 && len(data) < want {
		return fmt.Errorf("cartridge: corrupt save file: want %d bytes, got %d", want, len(data))
	}
	if len(data) == 0 {
		return nil
	}
	copy(m.ram, data[:ramLen])
	if m.hasRTC {
		m.clock.load(data[ramLen : ramLen+9])
	}
	return nil
}

package cartridge

// MBC1 implements the classic two-register banking scheme: a 5-bit
// "lower" ROM bank selector and a 2-bit "upper" selector that doubles as
// the RAM bank number or the high bits of a >512KiB ROM bank number,
// switched by a banking-mode bit. See spec §4.1.
type MBC1 struct {
	rom []byte
	ram []byte

	ramEnable bool
	lower     uint8 // 5 bits, 2000-3FFF write target; 0 coerces to 1
	upper     uint8 // 2 bits, 4000-5FFF write target
	mode      bool  // 6000-7FFF write target

	romBanks int
}

// NewMBC1 returns an MBC1 cartridge. lower starts at 1 per the spec
// invariant that bank 0 is never selectable through the lower register.
func NewMBC1(rom []byte, ramSize int) *MBC1 {
	return &MBC1{
		rom:      rom,
		ram:      make([]byte, ramSize),
		lower:    1,
		romBanks: len(rom) / 0x4000,
	}
}

func (m *MBC1) romBank0() int {
	if m.mode {
		return (int(m.upper) << 5) % m.romBanks
	}
	return 0
}

func (m *MBC1) romBankSwitchable() int {
	if m.mode {
		return int(m.lower) % m.romBanks
	}
	bank := (int(m.upper)<<5 | int(m.lower)) % m.romBanks
	return bank
}

func (m *MBC1) ReadROM(addr uint16) uint8 {
	var bank int
	if addr < 0x4000 {
		bank = m.romBank0()
	} else {
		bank = m.romBankSwitchable()
	}
	offset := bank*0x4000 + int(addr&0x3FFF)
	if offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MBC1) WriteROM(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnable = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x1F
		if v == 0 {
			v = 1
		}
		m.lower = v
	case addr < 0x6000:
		m.upper = v & 0x03
	case addr < 0x8000:
		m.mode = v&0x01 != 0
	}
}

func (m *MBC1) ramBank() int {
	if m.mode {
		return int(m.upper)
	}
	return 0
}

func (m *MBC1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable || len(m.ram) == 0 {
		return noRAMByte
	}
	offset := m.ramBank()*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return noRAMByte
	}
	return m.ram[offset]
}

func (m *MBC1) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable || len(m.ram) == 0 {
		return
	}
	offset := m.ramBank()*0x2000 + int(addr-0xA000)
	if offset >= len(m.ram) {
		return
	}
	m.ram[offset] = v
}

func (m *MBC1) Save() []byte {
	return append([]byte(nil), m.ram...)
}

func (m *MBC1) LoadSave(data []byte) error {
	copy(m.ram, data)
	return nil
}

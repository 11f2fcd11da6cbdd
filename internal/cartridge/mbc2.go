package cartridge

// MBC2 has a built-in 512x4-bit RAM (no external RAM chip) and a single
// 4-bit ROM bank register. Bit 8 of the address written to 0000-3FFF
// discriminates a RAM-enable write from a ROM-bank-select write.
type MBC2 struct {
	rom  []byte
	ram  [512]byte // low nibble significant per entry
	bank uint8

	ramEnable bool
	romBanks  int
}

// NewMBC2 returns an MBC2 cartridge.
func NewMBC2(rom []byte) *MBC2 {
	return &MBC2{rom: rom, bank: 1, romBanks: len(rom) / 0x4000}
}

func (m *MBC2) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		return m.rom[addr]
	}
	bank := int(m.bank) % m.romBanks
	offset := bank*0x4000 + int(addr&0x3FFF)
	if offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MBC2) WriteROM(addr uint16, v uint8) {
	if addr >= 0x4000 {
		return
	}
	if addr&0x0100 == 0 {
		m.ramEnable = v&0x0F == 0x0A
		return
	}
	v &= 0x0F
	if v == 0 {
		v = 1
	}
	m.bank = v
}

func (m *MBC2) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable {
		return noRAMByte
	}
	return m.ram[(addr-0xA000)%512] | 0xF0
}

func (m *MBC2) WriteRAM(addr uint16, v uint8) {
	if !m.ramEnable {
		return
	}
	m.ram[(addr-0xA000)%512] = v & 0x0F
}

func (m *MBC2) Save() []byte {
	return append([]byte(nil), m.ram[:]...)
}

func (m *MBC2) LoadSave(data []byte) error {
	copy(m.ram[:], data)
	return nil
}

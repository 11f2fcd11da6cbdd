package cartridge

// MBC is the capability set every cartridge variant implements: the
// distilled spec's "three-method contract" (read, write, shutdown),
// split into ROM/RAM halves because the bus routes them from disjoint
// address windows (0000-7FFF vs A000-BFFF).
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, v uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, v uint8)

	// Save returns the persistence payload (external RAM, plus the RTC for
	// MBC3), per the §4.1 persistence format. It does not check for a
	// battery; callers use Cartridge.HasBattery to decide whether to keep it.
	Save() []byte
	// LoadSave restores a previously-saved payload, with or without a
	// battery.
	LoadSave(data []byte) error
}

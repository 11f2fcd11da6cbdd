// Package cartridge implements the Game Boy cartridge: header parsing,
// the bank-switching MBC variants, and battery-backed save persistence.
package cartridge

import "fmt"

// Cartridge wraps the selected MBC implementation with the save-file
// plumbing common to every variant.
type Cartridge struct {
	MBC
	Header Header

	battery bool
}

// New parses rom's header and constructs the matching MBC. It does not
// touch the filesystem; callers load/save battery data separately via
// Save/LoadSave so the CORE has no filesystem dependency (spec §1).
func New(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{Header: header, battery: header.Type.hasBattery()}
	switch header.Type {
	case ROM, ROMRAM, ROMRAMBattery:
		c.MBC = NewROMCartridge(rom, header.RAMSize)
	case MBC1, MBC1RAM, MBC1RAMBattery:
		c.MBC = NewMBC1(rom, header.RAMSize)
	case MBC2, MBC2Battery:
		c.MBC = NewMBC2(rom)
	case MBC3, MBC3RAM, MBC3RAMBattery, MBC3TimerBattery, MBC3TimerRAMBatt:
		c.MBC = NewMBC3(rom, header.RAMSize, header.Type.hasRTC())
	default:
		return nil, fmt.Errorf("cartridge: unsupported MBC type %s", header.Type)
	}

	return c, nil
}

// HasBattery reports whether this cartridge's external RAM (and, for
// MBC3, RTC) should be persisted across runs.
func (c *Cartridge) HasBattery() bool {
	return c.battery
}

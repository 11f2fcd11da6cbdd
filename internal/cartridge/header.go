package cartridge

import (
	"fmt"
	"strings"
)

// Type identifies the MBC variant byte at ROM offset 0x0147.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBattery    Type = 0x03
	MBC2              Type = 0x05
	MBC2Battery       Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBattery     Type = 0x09
	MBC3TimerBattery  Type = 0x0F
	MBC3TimerRAMBatt  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBattery    Type = 0x13
)

func (t Type) hasBattery() bool {
	switch t {
	case MBC1RAMBattery, MBC2Battery, ROMRAMBattery, MBC3TimerBattery, MBC3TimerRAMBatt, MBC3RAMBattery:
		return true
	}
	return false
}

func (t Type) hasRTC() bool {
	return t == MBC3TimerBattery || t == MBC3TimerRAMBatt
}

func (t Type) String() string {
	switch t {
	case ROM:
		return "ROM ONLY"
	case MBC1, MBC1RAM, MBC1RAMBattery:
		return "MBC1"
	case MBC2, MBC2Battery:
		return "MBC2"
	case ROMRAM, ROMRAMBattery:
		return "ROM+RAM"
	case MBC3TimerBattery, MBC3TimerRAMBatt, MBC3, MBC3RAM, MBC3RAMBattery:
		return "MBC3"
	default:
		return fmt.Sprintf("unknown (0x%02X)", uint8(t))
	}
}

var ramSizes = map[uint8]int{
	0: 0,
	1: 2 * 1024,
	2: 8 * 1024,
	3: 32 * 1024,
	4: 128 * 1024,
	5: 64 * 1024,
}

// Header is the parsed 0x0100-0x014F cartridge header.
type Header struct {
	Title       string
	CGBFlag     uint8
	Type        Type
	ROMSize     int // total ROM bytes
	RAMSize     int // total external RAM bytes
	ROMBankMask int // ROMSize/0x4000 - 1, used to wrap bank numbers
}

// ParseHeader reads the header out of a full ROM image, returning an
// error for anything too short or too corrupt to describe real hardware.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 0x150 {
		return Header{}, fmt.Errorf("cartridge: ROM too short to contain a header (%d bytes)", len(rom))
	}

	h := Header{
		Title:   strings.TrimRight(string(rom[0x134:0x143]), "\x00"),
		CGBFlag: rom[0x143],
		Type:    Type(rom[0x147]),
	}

	romCode := rom[0x148]
	switch romCode {
	case 0x52:
		h.ROMSize = 72 * 0x4000
	case 0x53:
		h.ROMSize = 80 * 0x4000
	case 0x54:
		h.ROMSize = 96 * 0x4000
	default:
		if romCode > 8 {
			return Header{}, fmt.Errorf("cartridge: invalid ROM size code 0x%02X", romCode)
		}
		h.ROMSize = (32 * 1024) << romCode
	}

	ramCode := rom[0x149]
	size, ok := ramSizes[ramCode]
	if !ok {
		return Header{}, fmt.Errorf("cartridge: invalid RAM size code 0x%02X", ramCode)
	}
	h.RAMSize = size

	switch h.Type {
	case ROM, MBC1, MBC1RAM, MBC1RAMBattery, MBC2, MBC2Battery, ROMRAM, ROMRAMBattery,
		MBC3TimerBattery, MBC3TimerRAMBatt, MBC3, MBC3RAM, MBC3RAMBattery:
	default:
		return Header{}, fmt.Errorf("cartridge: unsupported MBC type %s", h.Type)
	}

	banks := h.ROMSize / 0x4000
	h.ROMBankMask = banks - 1
	return h, nil
}

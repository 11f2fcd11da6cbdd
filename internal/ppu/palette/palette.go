// Package palette maps a DMG 2-bit colour index (0-3) to an RGB triple.
package palette

// Greyscale is the canonical DMG colour ramp: white through black.
var Greyscale = [4][3]uint8{
	{0xFF, 0xFF, 0xFF},
	{0xCC, 0xCC, 0xCC},
	{0x77, 0x77, 0x77},
	{0x00, 0x00, 0x00},
}

// Apply runs a 2-bit colour index through an 8-bit BGP/OBPn register and
// returns the resulting RGB triple. The register maps each of the four
// source indices to one of the four ramp entries, two bits at a time.
func Apply(register uint8, index uint8) [3]uint8 {
	shade := (register >> (index * 2)) & 0x03
	return Greyscale[shade]
}

package lcd

// Status is the LCD Status register (STAT, 0xFF41):
//
//	Bit 6 - LYC=LY Coincidence Interrupt Enable (Read/Write)
//	Bit 5 - Mode 2 (OAMScan) Interrupt Enable   (Read/Write)
//	Bit 4 - Mode 1 (VBlank) Interrupt Enable    (Read/Write)
//	Bit 3 - Mode 0 (HBlank) Interrupt Enable    (Read/Write)
//	Bit 2 - Coincidence Flag, LYC == LY         (Read Only)
//	Bit 1-0 - Mode Flag                         (Read Only)
type Status struct {
	CoincidenceInterrupt bool
	OAMInterrupt         bool
	VBlankInterrupt      bool
	HBlankInterrupt      bool
	Coincidence          bool
	Mode                 Mode
}

// NewStatus returns STAT in its post-boot-ROM state.
func NewStatus() *Status {
	return &Status{Mode: OAMScan}
}

// Write applies the read/write bits of a byte written to 0xFF41; the
// coincidence flag and mode bits are not writable from the bus.
func (s *Status) Write(value uint8) {
	s.CoincidenceInterrupt = value&0x40 != 0
	s.OAMInterrupt = value&0x20 != 0
	s.VBlankInterrupt = value&0x10 != 0
	s.HBlankInterrupt = value&0x08 != 0
}

// Read re-encodes STAT, with the unused bit 7 pulled high as real
// hardware reports it.
func (s *Status) Read() uint8 {
	v := uint8(0x80)
	if s.CoincidenceInterrupt {
		v |= 0x40
	}
	if s.OAMInterrupt {
		v |= 0x20
	}
	if s.VBlankInterrupt {
		v |= 0x10
	}
	if s.HBlankInterrupt {
		v |= 0x08
	}
	if s.Coincidence {
		v |= 0x04
	}
	v |= uint8(s.Mode) & 0x03
	return v
}

// InterruptLine reports the combined, level-triggered STAT interrupt
// source used for edge detection: true whenever any enabled condition
// (mode or coincidence) currently holds.
func (s *Status) InterruptLine() bool {
	switch s.Mode {
	case HBlank:
		if s.HBlankInterrupt {
			return true
		}
	case VBlank:
		if s.VBlankInterrupt {
			return true
		}
	case OAMScan:
		if s.OAMInterrupt {
			return true
		}
	}
	return s.Coincidence && s.CoincidenceInterrupt
}

// Package apu implements the four-channel audio processing unit: square,
// wave, and noise generators, the 512 Hz frame sequencer that drives their
// length/envelope/sweep units, and the NR50/NR51/NR52 stereo mixer.
package apu

import "github.com/16meyrat/gbcemu-go/internal/types"

const (
	NR10 = 0xFF10
	NR11 = 0xFF11
	NR12 = 0xFF12
	NR13 = 0xFF13
	NR14 = 0xFF14
	NR21 = 0xFF16
	NR22 = 0xFF17
	NR23 = 0xFF18
	NR24 = 0xFF19
	NR30 = 0xFF1A
	NR31 = 0xFF1B
	NR32 = 0xFF1C
	NR33 = 0xFF1D
	NR34 = 0xFF1E
	NR41 = 0xFF20
	NR42 = 0xFF21
	NR43 = 0xFF22
	NR44 = 0xFF23
	NR50 = 0xFF24
	NR51 = 0xFF25
	NR52 = 0xFF26

	WaveRAMStart = 0xFF30
	WaveRAMEnd   = 0xFF3F

	frameSequencerPeriod = 8192 // T-cycles between 512Hz sequencer steps

	// gameBoyClockHz is the CPU/master clock Tick's tCycles are counted
	// against; it is the numerator for deriving samplePeriod from a
	// caller-supplied host sample rate.
	gameBoyClockHz = 4194304
)

// APU owns the four channels and the mix/output pipeline. Tick and the
// register read/write methods run on the emulation goroutine; PullSamples
// is safe to call concurrently from a host audio callback goroutine.
type APU struct {
	enabled bool

	ch1 *square
	ch2 *square
	ch3 *wave
	ch4 *noise

	nr50 uint8
	nr51 uint8

	sequencerStep    uint8
	sequencerCounter int
	sampleCounter    float64
	samplePeriod     float64 // T-cycles per output sample, at New's sampleRate

	ring *sampleRing
}

// New returns a powered-off APU generating samples at sampleRate Hz (the
// rate the host's audio device was opened with), with an internal ring
// sized for roughly a fifth of a second of audio at that rate.
func New(sampleRate int) *APU {
	ch1 := newSquare()
	ch1.sweep = &sweep{}
	return &APU{
		ch1:          ch1,
		ch2:          newSquare(),
		ch3:          newWave(),
		ch4:          newNoise(),
		samplePeriod: float64(gameBoyClockHz) / float64(sampleRate),
		ring:         newSampleRing(sampleRate / 5),
	}
}

// Tick advances every enabled channel and the frame sequencer by tCycles
// T-states, and appends any newly due output samples to the ring.
func (a *APU) Tick(tCycles int) {
	if a.enabled {
		a.ch1.tick(tCycles)
		a.ch2.tick(tCycles)
		a.ch3.tick(tCycles)
		a.ch4.tick(tCycles)

		a.sequencerCounter -= tCycles
		for a.sequencerCounter <= 0 {
			a.sequencerCounter += frameSequencerPeriod
			a.stepSequencer()
		}
	}

	a.sampleCounter += float64(tCycles)
	for a.sampleCounter >= a.samplePeriod {
		a.sampleCounter -= a.samplePeriod
		l, r := a.mixSample()
		a.ring.push(l, r)
	}
}

func (a *APU) stepSequencer() {
	switch a.sequencerStep {
	case 0, 4:
		a.lengthStep()
	case 2, 6:
		a.lengthStep()
		a.ch1.sweepStep()
	case 7:
		a.ch1.envelopeStep()
		a.ch2.envelopeStep()
		a.ch4.envelopeStep()
	}
	a.sequencerStep = (a.sequencerStep + 1) % 8
}

func (a *APU) lengthStep() {
	a.ch1.lengthStep()
	a.ch2.lengthStep()
	a.ch3.lengthStep()
	a.ch4.lengthStep()
}

func dacSample(raw uint8, dacEnabled bool) float32 {
	if !dacEnabled {
		return 0
	}
	return float32(raw)/7.5 - 1.0
}

func (a *APU) mixSample() (left, right float32) {
	s1 := dacSample(a.ch1.output(), a.ch1.dacEnabled)
	s2 := dacSample(a.ch2.output(), a.ch2.dacEnabled)
	s3 := dacSample(a.ch3.output(), a.ch3.dacEnabled)
	s4 := dacSample(a.ch4.output(), a.ch4.dacEnabled)

	var l, r float32
	if a.nr51&0x10 != 0 {
		l += s1
	}
	if a.nr51&0x20 != 0 {
		l += s2
	}
	if a.nr51&0x40 != 0 {
		l += s3
	}
	if a.nr51&0x80 != 0 {
		l += s4
	}
	if a.nr51&0x01 != 0 {
		r += s1
	}
	if a.nr51&0x02 != 0 {
		r += s2
	}
	if a.nr51&0x04 != 0 {
		r += s3
	}
	if a.nr51&0x08 != 0 {
		r += s4
	}

	leftVol := float32((a.nr50>>4)&0x07+1) / 8
	rightVol := float32(a.nr50&0x07+1) / 8
	return (l / 4) * leftVol, (r / 4) * rightVol
}

// PullSamples drains up to len(out)/2 interleaved stereo frames into out,
// returning the number of frames written. Callers should fill any shortfall
// with silence rather than blocking.
func (a *APU) PullSamples(out []float32) int {
	return a.ring.drain(out) / 2
}

func flagBit(cond bool, mask uint8) uint8 {
	if cond {
		return mask
	}
	return 0
}

// WriteRegister writes one of the 0xFF10-0xFF26 sound registers, or a
// wave-RAM byte at 0xFF30-0xFF3F.
func (a *APU) WriteRegister(addr uint16, v uint8) {
	if addr >= WaveRAMStart && addr <= WaveRAMEnd {
		a.ch3.ram[addr-WaveRAMStart] = v
		return
	}
	if addr == NR52 {
		wasEnabled := a.enabled
		a.enabled = v&0x80 != 0
		if wasEnabled && !a.enabled {
			a.powerOff()
		}
		return
	}
	if !a.enabled {
		return
	}

	switch addr {
	case NR10:
		a.ch1.sweep.period = (v >> 4) & 0x07
		a.ch1.sweep.negate = v&0x08 != 0
		a.ch1.sweep.shift = v & 0x07
	case NR11:
		a.ch1.duty = (v >> 6) & 0x03
		a.ch1.setLength(v, 0x3F)
	case NR12:
		a.ch1.setNRx2(v)
	case NR13:
		a.ch1.frequency = (a.ch1.frequency & 0x700) | uint16(v)
	case NR14:
		a.ch1.frequency = (a.ch1.frequency & 0xFF) | uint16(v&0x07)<<8
		a.ch1.lengthCounterEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.ch1.trigger()
		}
	case NR21:
		a.ch2.duty = (v >> 6) & 0x03
		a.ch2.setLength(v, 0x3F)
	case NR22:
		a.ch2.setNRx2(v)
	case NR23:
		a.ch2.frequency = (a.ch2.frequency & 0x700) | uint16(v)
	case NR24:
		a.ch2.frequency = (a.ch2.frequency & 0xFF) | uint16(v&0x07)<<8
		a.ch2.lengthCounterEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.ch2.trigger()
		}
	case NR30:
		a.ch3.dacEnabled = v&0x80 != 0
		if !a.ch3.dacEnabled {
			a.ch3.enabled = false
		}
	case NR31:
		a.ch3.lengthCounter = 256 - uint(v)
	case NR32:
		a.ch3.outputLevel = (v >> 5) & 0x03
	case NR33:
		a.ch3.frequency = (a.ch3.frequency & 0x700) | uint16(v)
	case NR34:
		a.ch3.frequency = (a.ch3.frequency & 0xFF) | uint16(v&0x07)<<8
		a.ch3.lengthCounterEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.ch3.trigger()
		}
	case NR41:
		a.ch4.setLength(v, 0x3F)
	case NR42:
		a.ch4.setNRx2(v)
	case NR43:
		a.ch4.clockShift = v >> 4
		a.ch4.widthMode = v&0x08 != 0
		a.ch4.divisorCode = v & 0x07
	case NR44:
		a.ch4.lengthCounterEnabled = v&0x40 != 0
		if v&0x80 != 0 {
			a.ch4.trigger()
		}
	case NR50:
		a.nr50 = v
	case NR51:
		a.nr51 = v
	default:
		panic("apu: invalid register write")
	}
}

// ReadRegister reads one of the 0xFF10-0xFF26 sound registers, or a
// wave-RAM byte at 0xFF30-0xFF3F. Unused bits of each NRxx register read
// back high, matching real hardware.
func (a *APU) ReadRegister(addr uint16) uint8 {
	if addr >= WaveRAMStart && addr <= WaveRAMEnd {
		return a.ch3.ram[addr-WaveRAMStart]
	}
	switch addr {
	case NR10:
		return 0x80 | a.ch1.sweep.period<<4 | flagBit(a.ch1.sweep.negate, 0x08) | a.ch1.sweep.shift
	case NR11:
		return 0x3F | a.ch1.duty<<6
	case NR12:
		return a.ch1.getNRx2()
	case NR13:
		return 0xFF
	case NR14:
		return 0xBF | flagBit(a.ch1.lengthCounterEnabled, 0x40)
	case NR21:
		return 0x3F | a.ch2.duty<<6
	case NR22:
		return a.ch2.getNRx2()
	case NR23:
		return 0xFF
	case NR24:
		return 0xBF | flagBit(a.ch2.lengthCounterEnabled, 0x40)
	case NR30:
		return 0x7F | flagBit(a.ch3.dacEnabled, 0x80)
	case NR31:
		return 0xFF
	case NR32:
		return 0x9F | a.ch3.outputLevel<<5
	case NR33:
		return 0xFF
	case NR34:
		return 0xBF | flagBit(a.ch3.lengthCounterEnabled, 0x40)
	case NR41:
		return 0xFF
	case NR42:
		return a.ch4.getNRx2()
	case NR43:
		return a.ch4.clockShift<<4 | flagBit(a.ch4.widthMode, 0x08) | a.ch4.divisorCode
	case NR44:
		return 0xBF | flagBit(a.ch4.lengthCounterEnabled, 0x40)
	case NR50:
		return a.nr50
	case NR51:
		return a.nr51
	case NR52:
		v := uint8(0x70)
		if a.enabled {
			v |= 0x80
		}
		v |= flagBit(a.ch1.isEnabled(), 0x01)
		v |= flagBit(a.ch2.isEnabled(), 0x02)
		v |= flagBit(a.ch3.isEnabled(), 0x04)
		v |= flagBit(a.ch4.isEnabled(), 0x08)
		return v
	}
	panic("apu: invalid register read")
}

// powerOff clears every register except wave RAM, matching the hardware
// behaviour of NR52 bit 7 going low.
func (a *APU) powerOff() {
	wave := a.ch3.ram
	*a.ch1 = *newSquare()
	a.ch1.sweep = &sweep{}
	*a.ch2 = *newSquare()
	*a.ch3 = *newWave()
	a.ch3.ram = wave
	*a.ch4 = *newNoise()
	a.nr50 = 0
	a.nr51 = 0
}

// Save writes the APU's register and channel state. The sample ring is
// transient audio plumbing, not emulated state, and is not saved.
func (a *APU) Save(s *types.State) {
	s.WriteBool(a.enabled)
	s.Write8(a.nr50)
	s.Write8(a.nr51)
	s.Write8(a.sequencerStep)
	s.Write32(uint32(a.sequencerCounter))

	saveSquare(s, a.ch1)
	saveSquare(s, a.ch2)

	s.WriteBool(a.ch3.enabled)
	s.WriteBool(a.ch3.dacEnabled)
	s.Write32(uint32(a.ch3.lengthCounter))
	s.WriteBool(a.ch3.lengthCounterEnabled)
	s.Write8(a.ch3.outputLevel)
	s.Write16(a.ch3.frequency)
	s.WriteData(a.ch3.ram[:])
	s.Write8(a.ch3.positionCounter)
	s.Write32(uint32(a.ch3.frequencyTimer))

	saveNoise(s, a.ch4)
}

// Load restores state written by Save.
func (a *APU) Load(s *types.State) {
	a.enabled = s.ReadBool()
	a.nr50 = s.Read8()
	a.nr51 = s.Read8()
	a.sequencerStep = s.Read8()
	a.sequencerCounter = int(s.Read32())

	loadSquare(s, a.ch1)
	loadSquare(s, a.ch2)

	a.ch3.enabled = s.ReadBool()
	a.ch3.dacEnabled = s.ReadBool()
	a.ch3.lengthCounter = uint(s.Read32())
	a.ch3.lengthCounterEnabled = s.ReadBool()
	a.ch3.outputLevel = s.Read8()
	a.ch3.frequency = s.Read16()
	s.ReadData(a.ch3.ram[:])
	a.ch3.positionCounter = s.Read8()
	a.ch3.frequencyTimer = int(s.Read32())

	loadNoise(s, a.ch4)
}

func saveSquare(s *types.State, c *square) {
	s.WriteBool(c.enabled)
	s.WriteBool(c.dacEnabled)
	s.Write32(uint32(c.lengthCounter))
	s.WriteBool(c.lengthCounterEnabled)
	s.Write8(c.startingVolume)
	s.WriteBool(c.envelopeAddMode)
	s.Write8(c.period)
	s.Write8(c.envelopeTimer)
	s.Write8(c.currentVolume)
	s.Write8(c.duty)
	s.Write8(c.waveDutyPosition)
	s.Write16(c.frequency)
	s.Write32(uint32(c.frequencyTimer))
	if c.sweep != nil {
		s.WriteBool(true)
		s.Write8(c.sweep.period)
		s.WriteBool(c.sweep.negate)
		s.Write8(c.sweep.shift)
		s.Write8(c.sweep.timer)
		s.Write16(c.sweep.shadow)
		s.WriteBool(c.sweep.enabled)
	} else {
		s.WriteBool(false)
	}
}

func loadSquare(s *types.State, c *square) {
	c.enabled = s.ReadBool()
	c.dacEnabled = s.ReadBool()
	c.lengthCounter = uint(s.Read32())
	c.lengthCounterEnabled = s.ReadBool()
	c.startingVolume = s.Read8()
	c.envelopeAddMode = s.ReadBool()
	c.period = s.Read8()
	c.envelopeTimer = s.Read8()
	c.currentVolume = s.Read8()
	c.duty = s.Read8()
	c.waveDutyPosition = s.Read8()
	c.frequency = s.Read16()
	c.frequencyTimer = int(s.Read32())
	if s.ReadBool() && c.sweep != nil {
		c.sweep.period = s.Read8()
		c.sweep.negate = s.ReadBool()
		c.sweep.shift = s.Read8()
		c.sweep.timer = s.Read8()
		c.sweep.shadow = s.Read16()
		c.sweep.enabled = s.ReadBool()
	}
}

func saveNoise(s *types.State, n *noise) {
	s.WriteBool(n.enabled)
	s.WriteBool(n.dacEnabled)
	s.Write32(uint32(n.lengthCounter))
	s.WriteBool(n.lengthCounterEnabled)
	s.Write8(n.startingVolume)
	s.WriteBool(n.envelopeAddMode)
	s.Write8(n.period)
	s.Write8(n.envelopeTimer)
	s.Write8(n.currentVolume)
	s.Write16(n.lfsr)
	s.Write8(n.clockShift)
	s.WriteBool(n.widthMode)
	s.Write8(n.divisorCode)
	s.Write32(uint32(n.frequencyTimer))
}

func loadNoise(s *types.State, n *noise) {
	n.enabled = s.ReadBool()
	n.dacEnabled = s.ReadBool()
	n.lengthCounter = uint(s.Read32())
	n.lengthCounterEnabled = s.ReadBool()
	n.startingVolume = s.Read8()
	n.envelopeAddMode = s.ReadBool()
	n.period = s.Read8()
	n.envelopeTimer = s.Read8()
	n.currentVolume = s.Read8()
	n.lfsr = s.Read16()
	n.clockShift = s.Read8()
	n.widthMode = s.ReadBool()
	n.divisorCode = s.Read8()
	n.frequencyTimer = int(s.Read32())
}

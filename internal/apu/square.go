package apu

// dutyTable holds the four waveform patterns selectable via NRx1 bits 6-7,
// read MSB-first as the wave duty position advances.
var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1}, // 12.5%
	{1, 0, 0, 0, 0, 0, 0, 1}, // 25%
	{1, 0, 0, 0, 0, 1, 1, 1}, // 50%
	{0, 1, 1, 1, 1, 1, 1, 0}, // 75%
}

// sweep implements channel 1's frequency sweep unit (NR10).
type sweep struct {
	period  uint8
	negate  bool
	shift   uint8
	timer   uint8
	shadow  uint16
	enabled bool
}

func (s *sweep) calculate(from uint16) uint16 {
	delta := from >> s.shift
	if s.negate {
		return from - delta
	}
	return from + delta
}

// square is a duty-cycle square wave channel, used for both NR1x and NR2x;
// ch2 simply leaves sweep nil.
type square struct {
	channel
	duty             uint8
	waveDutyPosition uint8
	frequency        uint16
	frequencyTimer   int
	sweep            *sweep
}

func newSquare() *square {
	return &square{channel: channel{lengthFull: 64}}
}

func (s *square) reloadFrequencyTimer() {
	s.frequencyTimer = (2048 - int(s.frequency)) * 4
}

// tick advances the waveform generator by tCycles T-states.
func (s *square) tick(tCycles int) {
	s.frequencyTimer -= tCycles
	for s.frequencyTimer <= 0 {
		s.reloadFrequencyTimer()
		s.waveDutyPosition = (s.waveDutyPosition + 1) % 8
	}
}

func (s *square) sweepStep() {
	sw := s.sweep
	if sw == nil {
		return
	}
	if sw.timer > 0 {
		sw.timer--
	}
	if sw.timer != 0 {
		return
	}
	if sw.period != 0 {
		sw.timer = sw.period
	} else {
		sw.timer = 8
	}
	if !sw.enabled || sw.period == 0 {
		return
	}
	newFreq := sw.calculate(sw.shadow)
	if newFreq > 2047 {
		s.enabled = false
		return
	}
	if sw.shift != 0 {
		sw.shadow = newFreq
		s.frequency = newFreq
		if sw.calculate(sw.shadow) > 2047 {
			s.enabled = false
		}
	}
}

func (s *square) trigger() {
	s.channel.trigger()
	s.reloadFrequencyTimer()
	if sw := s.sweep; sw != nil {
		sw.shadow = s.frequency
		sw.timer = sw.period
		if sw.timer == 0 {
			sw.timer = 8
		}
		sw.enabled = sw.period != 0 || sw.shift != 0
		if sw.shift != 0 && sw.calculate(sw.shadow) > 2047 {
			s.enabled = false
		}
	}
}

func (s *square) output() uint8 {
	if !s.isEnabled() || dutyTable[s.duty][s.waveDutyPosition] == 0 {
		return 0
	}
	return s.currentVolume
}

// Package emulator wires the CPU, Bus, PPU, APU, Timer, Joypad and
// Cartridge together into a single steppable machine.
package emulator

import (
	"github.com/cespare/xxhash"

	"github.com/16meyrat/gbcemu-go/internal/apu"
	"github.com/16meyrat/gbcemu-go/internal/bus"
	"github.com/16meyrat/gbcemu-go/internal/cartridge"
	"github.com/16meyrat/gbcemu-go/internal/cpu"
	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/16meyrat/gbcemu-go/internal/joypad"
	"github.com/16meyrat/gbcemu-go/internal/ppu"
	"github.com/16meyrat/gbcemu-go/internal/timer"
	"github.com/16meyrat/gbcemu-go/internal/types"
	"github.com/16meyrat/gbcemu-go/pkg/log"
)

// Emulator is one fully wired Game Boy: every component, plus the glue
// loop that steps the CPU and keeps the rest of the machine in lockstep.
type Emulator struct {
	CPU    *cpu.CPU
	Bus    *bus.Bus
	PPU    *ppu.PPU
	APU    *apu.APU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Cart   *cartridge.Cartridge
	IRQ    *interrupts.Controller

	log log.Logger
}

// New builds an Emulator around the given ROM image. rom is the raw
// cartridge dump; decompression, if any, is the caller's job (see
// pkg/romloader). sampleRate is the rate, in Hz, the host's audio device
// was (or will be) opened at; the APU generates its stereo samples at
// that rate directly, so PullSamples needs no resampling downstream.
func New(rom []byte, sampleRate int, logger log.Logger) (*Emulator, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, err
	}

	irq := interrupts.NewController()
	p := ppu.New(irq)
	a := apu.New(sampleRate)
	t := timer.New(irq)
	jp := joypad.New(irq)
	b := bus.New(cart, p, a, t, jp, irq)
	c := cpu.New(b, irq)

	logger.Infof("loaded %s (%s, %d bytes ROM)", cart.Header.Title, cart.Header.Type, cart.Header.ROMSize)

	return &Emulator{
		CPU: c, Bus: b, PPU: p, APU: a, Timer: t, Joypad: jp, Cart: cart, IRQ: irq,
		log: logger,
	}, nil
}

// Step runs exactly one CPU instruction (or interrupt dispatch, or idle
// HALT/STOP tick) and advances every other component by the same number
// of T-cycles. It returns the T-cycles spent.
func (e *Emulator) Step() int {
	cycles := e.CPU.Step()
	e.Bus.Tick(cycles)
	return cycles
}

// RunFrame steps the machine until the PPU reports a fresh VBlank edge,
// i.e. until exactly one frame has been rendered into e.PPU.Framebuffer.
func (e *Emulator) RunFrame() {
	for {
		cycles := e.CPU.Step()
		if e.Bus.Tick(cycles) {
			return
		}
	}
}

// ApplyInput feeds a batch of button edges accumulated by the host since
// the last RunFrame call.
func (e *Emulator) ApplyInput(edges []joypad.Edge) {
	e.Joypad.Apply(edges)
}

// Close flushes the cartridge's battery-backed RAM (and RTC, for MBC3)
// into a snapshot the caller persists however it sees fit (see
// pkg/saves). It returns nil if the cartridge has no battery to flush.
// The Emulator itself never touches the filesystem; that stays the
// host's job, keeping the CORE usable headless or embedded.
func (e *Emulator) Close() []byte {
	if !e.Cart.HasBattery() {
		return nil
	}
	return e.Cart.Save()
}

// Framebuffer returns the current 160x144 RGB888 frame, row-major. It
// exists alongside the PPU field so host-facing code (pkg/host) can
// depend on a narrow Machine interface instead of the full Emulator.
func (e *Emulator) Framebuffer() []byte {
	return e.PPU.Framebuffer()
}

// PullAudio drains up to len(out)/2 interleaved stereo frames produced
// since the last call into out, returning the number of frames written.
func (e *Emulator) PullAudio(out []float32) int {
	return e.APU.PullSamples(out)
}

// FrameHash returns an xxhash digest of the current framebuffer, for
// cheaply comparing rendered output across runs (regression tests,
// deterministic-replay checks) without diffing 69120 raw bytes.
func (e *Emulator) FrameHash() uint64 {
	return xxhash.Sum64(e.PPU.Framebuffer())
}

// Save serializes the CPU/Bus/PPU/APU/Timer/Joypad/interrupt-controller
// state into a single binary snapshot. Cartridge state is not included:
// external RAM (and the MBC3 RTC) round-trips through Cart.Save()/LoadSave()
// instead, the same battery-backed path used for persistence between
// runs (see pkg/saves). The MBC bank-select registers are saved by
// neither path.
func (e *Emulator) Save() []byte {
	s := types.NewState()
	e.CPU.Save(s)
	e.Bus.Save(s)
	e.PPU.Save(s)
	e.APU.Save(s)
	e.Timer.Save(s)
	e.Joypad.Save(s)
	e.IRQ.Save(s)
	return s.Bytes()
}

// Load restores state written by Save. The Emulator must have been
// constructed from the same ROM; component identities (pointers) are
// unchanged, only their internal fields are overwritten.
func (e *Emulator) Load(raw []byte) {
	s := types.StateFromBytes(raw)
	e.CPU.Load(s)
	e.Bus.Load(s)
	e.PPU.Load(s)
	e.APU.Load(s)
	e.Timer.Load(s)
	e.Joypad.Load(s)
	e.IRQ.Load(s)
}

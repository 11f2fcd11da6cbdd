// Package host provides a native window, audio device and keyboard for
// driving an Emulator interactively. It never touches internal CORE
// packages beyond the public Emulator/PPU/APU/Joypad surface: everything
// here is a consumer of the machine, not part of it.
package host

import (
	"time"

	"github.com/16meyrat/gbcemu-go/internal/joypad"
	"github.com/16meyrat/gbcemu-go/internal/ppu"
)

// KeyEvent is a single keyboard transition the host observed, before it
// has been resolved to a game button via a Backend's key map.
type KeyEvent struct {
	Code    int
	Pressed bool
}

// AudioSampleRate is the frame rate Backend audio devices are opened at.
// 44.1kHz is the rate go-sdl2's AudioSpec plumbing and most host OS mixers
// handle without internal resampling.
const AudioSampleRate = 44100

// AudioChannels is always 2 (stereo); APU.PullSamples already interleaves
// left/right, matching what an SDL audio device of this spec expects.
const AudioChannels = 2

// Backend is a display/audio/input surface a Driver can push frames to
// and pull events from. SDL2Backend (sdl2.go) is the real implementation,
// built with -tags sdl2; the default build links its stub instead, which
// fails every call except Close with an explanatory error.
type Backend interface {
	// Open creates the window, renderer and audio device. title is shown
	// in the window's title bar, scale multiplies the native 160x144
	// resolution for the backing window size.
	Open(title string, scale int) error
	// Present blits an RGB888 framebuffer (as returned by ppu.PPU.Framebuffer)
	// to the window and returns any keyboard edges observed since the last
	// call, plus whether the user requested the window be closed.
	Present(framebuffer []byte) ([]KeyEvent, bool, error)
	// QueueAudio pushes one batch of interleaved stereo float32 samples
	// (as returned by apu.APU.PullSamples) to the audio device.
	QueueAudio(samples []float32) error
	// Close releases the window, renderer and audio device.
	Close() error
}

// KeyMap resolves host keyboard codes to Game Boy buttons. Backends are
// free to use their own native key constants as Code; Driver only ever
// passes KeyEvents back through the same KeyMap that produced them.
// DefaultKeyMap (in sdl2.go / sdl2_stub.go) supplies the conventional
// arrows-plus-Z/X layout for the SDL2 backend's key codes (empty in the
// stub build).
type KeyMap map[int]joypad.Button

// Driver pumps frames from an Emulator-like source into a Backend at the
// machine's native ~59.73Hz, translating window events into joypad edges.
type Driver struct {
	backend Backend
	keys    KeyMap
}

// NewDriver returns a Driver that pushes frames to backend, resolving
// keyboard events through keys.
func NewDriver(backend Backend, keys KeyMap) *Driver {
	return &Driver{backend: backend, keys: keys}
}

// Machine is the subset of Emulator a Driver needs, kept narrow so tests
// can supply a fake instead of wiring a full emulator.
type Machine interface {
	RunFrame()
	ApplyInput(edges []joypad.Edge)
	Framebuffer() []byte
	PullAudio(out []float32) int
}

// Run drives m against d's backend until the backend reports the window
// was closed or stop is closed. Each iteration runs one emulated frame,
// presents it, and queues whatever audio the APU produced in the
// meantime, sleeping off any slack to hold the native frame rate.
func (d *Driver) Run(m Machine, stop <-chan struct{}) error {
	frameBudget := 16743 * time.Microsecond
	audioBuf := make([]float32, 4096)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		start := time.Now()
		m.RunFrame()

		n := m.PullAudio(audioBuf)
		if n > 0 {
			if err := d.backend.QueueAudio(audioBuf[:n*AudioChannels]); err != nil {
				return err
			}
		}

		events, closed, err := d.backend.Present(m.Framebuffer())
		if err != nil {
			return err
		}
		if len(events) > 0 {
			edges := make([]joypad.Edge, 0, len(events))
			for _, e := range events {
				button, ok := d.keys[e.Code]
				if !ok {
					continue
				}
				edges = append(edges, joypad.Edge{Button: button, Pressed: e.Pressed})
			}
			if len(edges) > 0 {
				m.ApplyInput(edges)
			}
		}
		if closed {
			return nil
		}

		if elapsed := time.Since(start); elapsed < frameBudget {
			time.Sleep(frameBudget - elapsed)
		}
	}
}

// validFramebuffer checks framebuffer has the expected 160x144 RGB888
// size; pixel-format conversion for a specific backend lives alongside
// that backend's implementation, not here.
func validFramebuffer(fb []byte) bool {
	return len(fb) == ppu.ScreenWidth*ppu.ScreenHeight*3
}

//go:build sdl2

package host

import (
	"fmt"
	"unsafe"

	"github.com/16meyrat/gbcemu-go/internal/joypad"
	"github.com/16meyrat/gbcemu-go/internal/ppu"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL2Backend implements Backend with a real window, renderer and audio
// device via go-sdl2. Building it requires SDL2's development libraries
// and the sdl2 build tag; default builds link sdl2_stub.go's SDL2Backend
// instead, which rejects every call except Close.
type SDL2Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	audioDevice sdl.AudioDeviceID
	audioBuf    []int16

	rgba    []byte
	keyBuf  []KeyEvent
	closing bool
}

// NewSDL2Backend returns an unopened SDL2Backend. Call Open before using it.
func NewSDL2Backend() *SDL2Backend {
	return &SDL2Backend{keyBuf: make([]KeyEvent, 0, 8)}
}

func (s *SDL2Backend) Open(title string, scale int) error {
	if scale < 1 {
		scale = 1
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(ppu.ScreenWidth*scale), int32(ppu.ScreenHeight*scale), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING,
		int32(ppu.ScreenWidth), int32(ppu.ScreenHeight))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("create texture: %w", err)
	}
	s.texture = texture
	s.rgba = make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)

	if err := s.openAudio(); err != nil {
		return fmt.Errorf("open audio: %w", err)
	}

	return nil
}

func (s *SDL2Backend) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     AudioSampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: AudioChannels,
		Samples:  512,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return err
	}
	s.audioDevice = dev
	sdl.PauseAudioDevice(s.audioDevice, false)
	return nil
}

func (s *SDL2Backend) Present(framebuffer []byte) ([]KeyEvent, bool, error) {
	s.keyBuf = s.keyBuf[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			s.closing = true
		case *sdl.KeyboardEvent:
			s.keyBuf = append(s.keyBuf, KeyEvent{
				Code:    int(e.Keysym.Sym),
				Pressed: e.Type == sdl.KEYDOWN,
			})
		}
	}

	if !validFramebuffer(framebuffer) {
		return s.keyBuf, s.closing, fmt.Errorf("host: framebuffer has wrong size %d", len(framebuffer))
	}

	for i := 0; i < ppu.ScreenWidth*ppu.ScreenHeight; i++ {
		r, g, b := framebuffer[i*3], framebuffer[i*3+1], framebuffer[i*3+2]
		// ABGR byte order, matching RGBA8888 on a little-endian host.
		s.rgba[i*4+0] = 0xFF
		s.rgba[i*4+1] = b
		s.rgba[i*4+2] = g
		s.rgba[i*4+3] = r
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.rgba[0]), ppu.ScreenWidth*4); err != nil {
		return s.keyBuf, s.closing, err
	}

	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return s.keyBuf, s.closing, nil
}

func (s *SDL2Backend) QueueAudio(samples []float32) error {
	if s.audioDevice == 0 {
		return nil
	}
	if cap(s.audioBuf) < len(samples) {
		s.audioBuf = make([]int16, len(samples))
	}
	s.audioBuf = s.audioBuf[:len(samples)]
	for i, v := range samples {
		s.audioBuf[i] = int16(v * 32767)
	}
	return sdl.QueueAudio(s.audioDevice, int16SliceToBytes(s.audioBuf))
}

func (s *SDL2Backend) Close() error {
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

// DefaultKeyMap is a conventional layout for the SDL2 backend: arrow keys
// for direction, Z/X for B/A, Enter for Start, Right-Shift for Select.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		int(sdl.K_UP):     joypad.Up,
		int(sdl.K_DOWN):   joypad.Down,
		int(sdl.K_LEFT):   joypad.Left,
		int(sdl.K_RIGHT):  joypad.Right,
		int(sdl.K_z):      joypad.B,
		int(sdl.K_x):      joypad.A,
		int(sdl.K_RETURN): joypad.Start,
		int(sdl.K_RSHIFT): joypad.Select,
	}
}

func int16SliceToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

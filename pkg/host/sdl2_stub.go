//go:build !sdl2

package host

import "fmt"

// DefaultKeyMap returns an empty KeyMap when built without SDL2; there is
// no real key codes to map without the sdl2 tag's key constants.
func DefaultKeyMap() KeyMap {
	return make(KeyMap)
}

// SDL2Backend stands in for the real SDL2-backed Backend when the binary
// was built without the sdl2 tag and SDL2's development libraries. Every
// method except Close returns an error; this keeps cmd/gbcore linkable without SDL2
// installed while still letting it reference host.NewSDL2Backend.
type SDL2Backend struct{}

// NewSDL2Backend returns a stub Backend that always fails to Open.
func NewSDL2Backend() *SDL2Backend {
	return &SDL2Backend{}
}

func (s *SDL2Backend) Open(title string, scale int) error {
	return fmt.Errorf("host: SDL2 backend not available, rebuild with -tags sdl2 and SDL2 development libraries installed")
}

func (s *SDL2Backend) Present(framebuffer []byte) ([]KeyEvent, bool, error) {
	return nil, true, fmt.Errorf("host: SDL2 backend not available")
}

func (s *SDL2Backend) QueueAudio(samples []float32) error {
	return fmt.Errorf("host: SDL2 backend not available")
}

func (s *SDL2Backend) Close() error {
	return nil
}

package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/16meyrat/gbcemu-go/internal/joypad"
	"github.com/16meyrat/gbcemu-go/internal/ppu"
)

type fakeBackend struct {
	presented int
	events    []KeyEvent
	closeAt   int
	audio     [][]float32
}

func (f *fakeBackend) Open(title string, scale int) error { return nil }

func (f *fakeBackend) Present(framebuffer []byte) ([]KeyEvent, bool, error) {
	f.presented++
	events := f.events
	f.events = nil
	return events, f.closeAt != 0 && f.presented >= f.closeAt, nil
}

func (f *fakeBackend) QueueAudio(samples []float32) error {
	cp := append([]float32(nil), samples...)
	f.audio = append(f.audio, cp)
	return nil
}

func (f *fakeBackend) Close() error { return nil }

type fakeMachine struct {
	frames  int
	applied []joypad.Edge
	samples int
}

func (m *fakeMachine) RunFrame() { m.frames++ }

func (m *fakeMachine) ApplyInput(edges []joypad.Edge) {
	m.applied = append(m.applied, edges...)
}

func (m *fakeMachine) Framebuffer() []byte {
	return make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*3)
}

func (m *fakeMachine) PullAudio(out []float32) int {
	if m.samples == 0 {
		return 0
	}
	n := m.samples
	if n > len(out)/2 {
		n = len(out) / 2
	}
	return n
}

func TestDriverRunsUntilBackendCloses(t *testing.T) {
	backend := &fakeBackend{closeAt: 3}
	machine := &fakeMachine{}
	d := NewDriver(backend, DefaultKeyMap())

	done := make(chan error, 1)
	go func() { done <- d.Run(machine, nil) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after backend reported closed")
	}

	assert.Equal(t, 3, backend.presented)
	assert.Equal(t, 3, machine.frames)
}

func TestDriverStopsOnSignal(t *testing.T) {
	backend := &fakeBackend{}
	machine := &fakeMachine{}
	d := NewDriver(backend, DefaultKeyMap())

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- d.Run(machine, stop) }()

	time.Sleep(20 * time.Millisecond)
	close(stop)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after stop signal")
	}
}

func TestDriverTranslatesKeyEventsThroughKeyMap(t *testing.T) {
	keys := KeyMap{42: joypad.A}
	backend := &fakeBackend{closeAt: 1, events: []KeyEvent{{Code: 42, Pressed: true}, {Code: 99, Pressed: true}}}
	machine := &fakeMachine{}
	d := NewDriver(backend, keys)

	require.NoError(t, d.Run(machine, nil))

	require.Len(t, machine.applied, 1)
	assert.Equal(t, joypad.A, machine.applied[0].Button)
	assert.True(t, machine.applied[0].Pressed)
}

func TestDriverQueuesAudioWhenAvailable(t *testing.T) {
	backend := &fakeBackend{closeAt: 1}
	machine := &fakeMachine{samples: 10}
	d := NewDriver(backend, DefaultKeyMap())

	require.NoError(t, d.Run(machine, nil))

	require.Len(t, backend.audio, 1)
	assert.Len(t, backend.audio[0], 20)
}

func TestValidFramebufferRejectsWrongSize(t *testing.T) {
	assert.False(t, validFramebuffer(make([]byte, 10)))
	assert.True(t, validFramebuffer(make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*3)))
}

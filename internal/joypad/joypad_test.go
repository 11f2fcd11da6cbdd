package joypad

import (
	"testing"

	"github.com/16meyrat/gbcemu-go/internal/interrupts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNoSelection(t *testing.T) {
	j := New(interrupts.NewController())
	require.Equal(t, uint8(0xFF), j.Read())
}

func TestPressEdgeRaisesInterrupt(t *testing.T) {
	irq := interrupts.NewController()
	j := New(irq)
	j.Write(0x20) // select direction row (bit4=0, bit5=1)

	raised := j.Apply([]Edge{{Button: Up, Pressed: true}})
	assert.True(t, raised)
	assert.NotZero(t, irq.Flag&(1<<interrupts.Joypad))

	irq.Clear(interrupts.Joypad)
	// holding Up again must not re-raise
	raised = j.Apply([]Edge{{Button: Up, Pressed: true}})
	assert.False(t, raised)
}

func TestReadSelectedRow(t *testing.T) {
	irq := interrupts.NewController()
	j := New(irq)
	j.Write(0x20) // direction row selected
	j.Press(Up)
	j.Press(Left)

	v := j.Read()
	assert.Equal(t, uint8(0), v&(1<<2)) // Up pressed -> bit cleared
	assert.Equal(t, uint8(0), v&(1<<1)) // Left pressed -> bit cleared
	assert.NotZero(t, v&(1<<0))         // Right not pressed -> bit set
}

func TestReleaseClearsState(t *testing.T) {
	irq := interrupts.NewController()
	j := New(irq)
	j.Write(0x10) // action row selected
	j.Apply([]Edge{{Button: A, Pressed: true}})
	j.Apply([]Edge{{Button: A, Pressed: false}})

	v := j.Read()
	assert.NotZero(t, v&0x0F) // nothing held
}
